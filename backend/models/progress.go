package models

import (
	"time"

	"gorm.io/gorm"
)

// LessonProgress records one completed lesson per (username, course,
// lesson order). Re-completing the same lesson overwrites in place.
type LessonProgress struct {
	gorm.Model
	Username    string    `gorm:"not null;uniqueIndex:idx_lesson_progress_key"`
	CourseID    string    `gorm:"not null;uniqueIndex:idx_lesson_progress_key"`
	LessonOrder int       `gorm:"not null;uniqueIndex:idx_lesson_progress_key"`
	CompletedAt time.Time `gorm:"not null"`
	TimeSpent   int       `gorm:"default:0"` // seconds
}

// CourseState holds the last-viewed lesson pointer per (username,
// course). Last-viewed, not furthest-reached: navigating backwards moves
// the pointer back too.
type CourseState struct {
	gorm.Model
	Username   string `gorm:"not null;uniqueIndex:idx_course_state_key"`
	CourseID   string `gorm:"not null;uniqueIndex:idx_course_state_key"`
	LastLesson int    `gorm:"default:1"`
}
