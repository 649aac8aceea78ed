package attempts

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"portal/backend/content"
	"portal/backend/models"
)

// Store persists graded quiz submissions. Attempts are append-only:
// re-taking a quiz adds a row, it never rewrites history.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Save records one graded submission, serializing the per-question
// results alongside the summary numbers.
func (s *Store) Save(username, courseID string, result content.Result) (*models.QuizAttempt, error) {
	answers, err := json.Marshal(result.Details)
	if err != nil {
		return nil, fmt.Errorf("encode graded answers: %w", err)
	}

	attempt := models.QuizAttempt{
		Username: username,
		CourseID: courseID,
		Score:    result.Score,
		Total:    result.Total,
		Correct:  result.Correct,
		Answers:  string(answers),
		TakenAt:  time.Now().UTC(),
	}
	if err := s.DB.Create(&attempt).Error; err != nil {
		return nil, fmt.Errorf("save quiz attempt: %w", err)
	}
	return &attempt, nil
}

// History returns the user's attempts for a course, newest first.
func (s *Store) History(username, courseID string) ([]models.QuizAttempt, error) {
	var rows []models.QuizAttempt
	err := s.DB.Where("username = ? AND course_id = ?", username, courseID).
		Order("taken_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load quiz attempts: %w", err)
	}
	return rows, nil
}
