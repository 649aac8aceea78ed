package controllers

import (
	"github.com/gofiber/fiber/v2"

	"portal/backend/middleware"
	"portal/backend/progress"
	"portal/backend/utils"
)

type ProgressController struct {
	Tracker *progress.Tracker
}

func NewProgressController(tracker *progress.Tracker) *ProgressController {
	return &ProgressController{Tracker: tracker}
}

type lessonInput struct {
	LessonOrder int `json:"lesson_order"`
	TimeSpent   int `json:"time_spent"`
}

// MarkComplete records a lesson completion and advances the last-viewed
// pointer.
func (pc *ProgressController) MarkComplete(c *fiber.Ctx) error {
	username := middleware.Username(c)
	courseID := c.Params("id")

	var input lessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.LessonOrder < 1 {
		return utils.BadRequest(c, "Invalid lesson order")
	}

	if err := pc.Tracker.MarkComplete(username, courseID, input.LessonOrder, input.TimeSpent); err != nil {
		return utils.InternalServerError(c, "Could not save progress")
	}

	return c.JSON(fiber.Map{
		"message":      "Progress updated",
		"course_id":    courseID,
		"lesson_order": input.LessonOrder,
	})
}

// RecordLast moves the last-viewed pointer without marking anything
// complete, used on plain navigation.
func (pc *ProgressController) RecordLast(c *fiber.Ctx) error {
	username := middleware.Username(c)
	courseID := c.Params("id")

	var input lessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.LessonOrder < 1 {
		return utils.BadRequest(c, "Invalid lesson order")
	}

	if err := pc.Tracker.RecordLast(username, courseID, input.LessonOrder); err != nil {
		return utils.InternalServerError(c, "Could not save progress")
	}

	return c.JSON(fiber.Map{
		"message":      "Last lesson recorded",
		"course_id":    courseID,
		"lesson_order": input.LessonOrder,
	})
}

// GetCourseProgress returns the completed lesson orders and the
// last-viewed pointer for one course.
func (pc *ProgressController) GetCourseProgress(c *fiber.Ctx) error {
	username := middleware.Username(c)
	courseID := c.Params("id")

	completed, err := pc.Tracker.Completed(username, courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not load progress")
	}
	lastLesson, err := pc.Tracker.GetLast(username, courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not load progress")
	}

	return c.JSON(fiber.Map{
		"course_id":   courseID,
		"completed":   completed,
		"last_lesson": lastLesson,
	})
}

// GetStats aggregates progress across every course the user has touched.
func (pc *ProgressController) GetStats(c *fiber.Ctx) error {
	username := middleware.Username(c)

	stats, err := pc.Tracker.Stats(username)
	if err != nil {
		return utils.InternalServerError(c, "Could not load stats")
	}
	return c.JSON(fiber.Map{"stats": stats})
}
