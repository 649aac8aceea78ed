package content

import (
	"strconv"
	"strings"
)

// GradedQuestion is the per-question outcome of a grading pass.
type GradedQuestion struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options,omitempty"`
	Submitted     string   `json:"submitted"`
	CorrectAnswer string   `json:"correct_answer"`
	IsCorrect     bool     `json:"is_correct"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Result summarizes a graded submission. Score is a fraction in [0,1].
type Result struct {
	Correct int              `json:"correct"`
	Total   int              `json:"total"`
	Score   float64          `json:"score"`
	Details []GradedQuestion `json:"details"`
}

// Passed reports whether the score meets the passing threshold.
func (r Result) Passed(threshold float64) bool {
	return r.Score >= threshold
}

// Grade scores a submission against a quiz's question bank. Answers are
// keyed by question position; a missing entry is an incorrect answer,
// never an error. Grading is deterministic and has no side effects, so
// persisting the attempt is the caller's job.
func Grade(quiz *Quiz, answers map[int]string) Result {
	result := Result{Details: []GradedQuestion{}}
	if quiz == nil {
		return result
	}

	for idx, question := range quiz.Questions {
		submitted, ok := answers[idx]
		correct := ok && isCorrect(question, submitted)
		if correct {
			result.Correct++
		}
		result.Details = append(result.Details, GradedQuestion{
			Prompt:        question.Prompt,
			Options:       question.Options,
			Submitted:     submitted,
			CorrectAnswer: correctAnswer(question),
			IsCorrect:     correct,
			Explanation:   question.Explanation,
		})
	}

	result.Total = len(quiz.Questions)
	if result.Total > 0 {
		result.Score = float64(result.Correct) / float64(result.Total)
	}
	return result
}

func isCorrect(question Question, submitted string) bool {
	switch question.Type {
	case TypeMCQ:
		idx, err := strconv.Atoi(strings.TrimSpace(submitted))
		return err == nil && idx == question.AnswerIndex
	case TypeTrueFalse:
		return strings.EqualFold(strings.TrimSpace(submitted), question.Answer)
	default:
		return false
	}
}

func correctAnswer(question Question) string {
	if question.Type == TypeMCQ {
		return strconv.Itoa(question.AnswerIndex)
	}
	return question.Answer
}
