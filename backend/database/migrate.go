package database

import (
	"gorm.io/gorm"

	"portal/backend/models"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LessonProgress{},
		&models.CourseState{},
		&models.QuizAttempt{},
	)
}
