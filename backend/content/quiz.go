package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Question types supported by the grader.
const (
	TypeMCQ       = "mcq"
	TypeTrueFalse = "true_false"
)

// Question is a single quiz question. The correct answer and explanation
// stay server-side; handlers must strip them before sending questions to
// a client.
type Question struct {
	Type        string   `json:"type"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options,omitempty"`
	AnswerIndex int      `json:"answer_index"`
	Answer      string   `json:"answer,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// Quiz is a course's question bank. PassingScore is a fraction in [0,1].
type Quiz struct {
	PassingScore float64    `json:"passing_score"`
	Questions    []Question `json:"questions"`
}

// Quiz loads a course's quiz.json. A nil result means the course does not
// exist or has no quiz.
func (c *Cache) Quiz(courseID string) (*Quiz, error) {
	course, err := c.Course(courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, nil
	}

	raw, err := os.ReadFile(filepath.Join(course.Path, "quiz.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read quiz for %s: %w", courseID, err)
	}

	var quiz Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return nil, fmt.Errorf("parse quiz for %s: %w", courseID, err)
	}
	return &quiz, nil
}
