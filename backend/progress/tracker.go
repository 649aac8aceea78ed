package progress

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portal/backend/models"
)

// Tracker records lesson completions and the per-course last-viewed
// lesson pointer. Every write is an upsert keyed by a unique index, so
// concurrent writers simply overwrite in place.
type Tracker struct {
	DB *gorm.DB
}

func NewTracker(db *gorm.DB) *Tracker {
	return &Tracker{DB: db}
}

// MarkComplete upserts a completion record for the lesson and advances
// the course's last-viewed pointer to it. Re-completing a lesson
// overwrites the previous record instead of duplicating it.
func (t *Tracker) MarkComplete(username, courseID string, lessonOrder, timeSpent int) error {
	record := models.LessonProgress{
		Username:    username,
		CourseID:    courseID,
		LessonOrder: lessonOrder,
		CompletedAt: time.Now().UTC(),
		TimeSpent:   timeSpent,
	}
	err := t.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}, {Name: "course_id"}, {Name: "lesson_order"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed_at", "time_spent", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("save lesson progress: %w", err)
	}
	return t.RecordLast(username, courseID, lessonOrder)
}

// RecordLast moves the last-viewed pointer to the given lesson. The
// pointer follows navigation, so moving backwards is expected.
func (t *Tracker) RecordLast(username, courseID string, lessonOrder int) error {
	state := models.CourseState{
		Username:   username,
		CourseID:   courseID,
		LastLesson: lessonOrder,
	}
	err := t.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_lesson", "updated_at"}),
	}).Create(&state).Error
	if err != nil {
		return fmt.Errorf("save course state: %w", err)
	}
	return nil
}

// GetLast returns the last-viewed lesson order for the course, defaulting
// to 1 when the user has never touched it.
func (t *Tracker) GetLast(username, courseID string) (int, error) {
	var state models.CourseState
	err := t.DB.Where("username = ? AND course_id = ?", username, courseID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load course state: %w", err)
	}
	return state.LastLesson, nil
}

// Completed returns the orders of every completed lesson in the course,
// ascending.
func (t *Tracker) Completed(username, courseID string) ([]int, error) {
	var orders []int
	err := t.DB.Model(&models.LessonProgress{}).
		Where("username = ? AND course_id = ?", username, courseID).
		Order("lesson_order").
		Pluck("lesson_order", &orders).Error
	if err != nil {
		return nil, fmt.Errorf("load completed lessons: %w", err)
	}
	return orders, nil
}

// CourseStats summarizes one course for a user.
type CourseStats struct {
	LessonsCompleted int `json:"lessons_completed"`
	LastLesson       int `json:"last_lesson"`
}

// Stats aggregates completed-lesson counts and last-viewed pointers
// across every course the user has touched.
func (t *Tracker) Stats(username string) (map[string]CourseStats, error) {
	summary := map[string]CourseStats{}

	type countRow struct {
		CourseID  string
		Completed int
	}
	var counts []countRow
	err := t.DB.Model(&models.LessonProgress{}).
		Select("course_id, COUNT(*) as completed").
		Where("username = ?", username).
		Group("course_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate lesson progress: %w", err)
	}
	for _, row := range counts {
		summary[row.CourseID] = CourseStats{LessonsCompleted: row.Completed, LastLesson: 1}
	}

	var states []models.CourseState
	if err := t.DB.Where("username = ?", username).Find(&states).Error; err != nil {
		return nil, fmt.Errorf("load course states: %w", err)
	}
	for _, state := range states {
		stats := summary[state.CourseID]
		stats.LastLesson = state.LastLesson
		summary[state.CourseID] = stats
	}
	return summary, nil
}
