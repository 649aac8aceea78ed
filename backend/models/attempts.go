package models

import (
	"time"

	"gorm.io/gorm"
)

// QuizAttempt is one graded submission. Attempts are append-only so the
// full history stays queryable.
type QuizAttempt struct {
	gorm.Model
	Username string    `gorm:"not null;index"`
	CourseID string    `gorm:"not null;index"`
	Score    float64   `gorm:"not null"` // fraction in [0,1]
	Total    int       `gorm:"not null"`
	Correct  int       `gorm:"not null"`
	Answers  string    `gorm:"not null"` // JSON-serialized per-question results
	TakenAt  time.Time `gorm:"not null;index"`
}
