package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"portal/backend/attempts"
	"portal/backend/certs"
	"portal/backend/content"
	"portal/backend/middleware"
	"portal/backend/utils"
)

// QuizController serves quiz questions (without answers) and grades
// submissions server-side.
type QuizController struct {
	Cache    *content.Cache
	Attempts *attempts.Store
	Certs    *certs.Generator
}

func NewQuizController(cache *content.Cache, store *attempts.Store, generator *certs.Generator) *QuizController {
	return &QuizController{Cache: cache, Attempts: store, Certs: generator}
}

// GetQuiz returns the question set with answers and explanations
// stripped. Correct answers only ever travel server-side.
func (qc *QuizController) GetQuiz(c *fiber.Ctx) error {
	courseID := c.Params("id")

	quiz, err := qc.Cache.Quiz(courseID)
	if err != nil {
		return manifestError(c, err)
	}
	if quiz == nil {
		return utils.NotFound(c, "Quiz not found")
	}

	questions := make([]fiber.Map, 0, len(quiz.Questions))
	for idx, question := range quiz.Questions {
		entry := fiber.Map{
			"index":  idx,
			"type":   question.Type,
			"prompt": question.Prompt,
		}
		if question.Type == content.TypeMCQ {
			entry["options"] = question.Options
		}
		questions = append(questions, entry)
	}

	return c.JSON(fiber.Map{
		"course_id":     courseID,
		"passing_score": quiz.PassingScore,
		"questions":     questions,
	})
}

// SubmitQuiz grades a submission, persists the attempt, and issues a
// certificate when the score meets the passing threshold.
func (qc *QuizController) SubmitQuiz(c *fiber.Ctx) error {
	username := middleware.Username(c)
	courseID := c.Params("id")

	var input struct {
		Answers map[string]string `json:"answers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	course, err := qc.Cache.Course(courseID)
	if err != nil {
		return manifestError(c, err)
	}
	if course == nil {
		return utils.NotFound(c, "Course not found")
	}

	quiz, err := qc.Cache.Quiz(courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not load quiz")
	}
	if quiz == nil {
		return utils.NotFound(c, "Quiz not found")
	}

	answers := make(map[int]string, len(input.Answers))
	for key, value := range input.Answers {
		idx, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		answers[idx] = value
	}

	result := content.Grade(quiz, answers)
	passed := result.Passed(quiz.PassingScore)

	if _, err := qc.Attempts.Save(username, courseID, result); err != nil {
		return utils.InternalServerError(c, "Could not save attempt")
	}

	response := fiber.Map{
		"correct": result.Correct,
		"total":   result.Total,
		"score":   result.Score,
		"passed":  passed,
		"details": result.Details,
	}

	if passed {
		cert, err := qc.Certs.Generate(username, course.Title)
		if err != nil {
			return utils.InternalServerError(c, "Could not issue certificate")
		}
		response["certificate"] = cert
	}

	return c.JSON(response)
}

// GetAttempts returns the user's attempt history for a course, newest
// first.
func (qc *QuizController) GetAttempts(c *fiber.Ctx) error {
	username := middleware.Username(c)
	courseID := c.Params("id")

	history, err := qc.Attempts.History(username, courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not load attempts")
	}

	rows := make([]fiber.Map, 0, len(history))
	for _, attempt := range history {
		rows = append(rows, fiber.Map{
			"score":    attempt.Score,
			"total":    attempt.Total,
			"correct":  attempt.Correct,
			"taken_at": attempt.TakenAt,
		})
	}
	return c.JSON(fiber.Map{"attempts": rows})
}
