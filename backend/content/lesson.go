package content

import (
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RenderedLesson is a lesson body transformed for display plus its
// frontmatter metadata.
type RenderedLesson struct {
	Meta map[string]string `json:"meta"`
	HTML string            `json:"html"`
}

// Lesson loads and renders a lesson body. A nil result means the course
// or the lesson file does not exist; an existing but empty lesson renders
// to an empty body instead.
func (c *Cache) Lesson(courseID, lessonID string) (*RenderedLesson, error) {
	course, err := c.Course(courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, nil
	}

	lessonPath := filepath.Join(course.Path, "lessons", lessonID+".md")
	raw, err := os.ReadFile(lessonPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read lesson %s/%s: %w", courseID, lessonID, err)
	}

	meta, body := splitFrontmatter(string(raw))
	if meta == nil {
		meta = map[string]string{}
	}
	return &RenderedLesson{Meta: meta, HTML: renderBody(body)}, nil
}

// splitFrontmatter parses an optional leading metadata block delimited by
// "---" lines into key: value pairs, returning the metadata and the rest
// of the document. Without a block the whole input is the body.
func splitFrontmatter(raw string) (map[string]string, string) {
	if !strings.HasPrefix(raw, "---") {
		return nil, raw
	}
	rest := raw[len("---"):]
	end := strings.Index(rest, "---")
	if end < 0 {
		return nil, raw
	}

	meta := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(rest[:end]), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		meta[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return meta, rest[end+len("---"):]
}

// renderBody maps heading markers and blank-line-separated paragraphs to
// structural markup. Deliberately minimal: lists, emphasis and links are
// out of scope for lesson content.
func renderBody(body string) string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		stripped := strings.TrimSpace(line)
		switch {
		case stripped == "":
			continue
		case strings.HasPrefix(stripped, "## "):
			lines = append(lines, "<h2>"+html.EscapeString(stripped[3:])+"</h2>")
		case strings.HasPrefix(stripped, "# "):
			lines = append(lines, "<h1>"+html.EscapeString(stripped[2:])+"</h1>")
		default:
			lines = append(lines, "<p>"+html.EscapeString(stripped)+"</p>")
		}
	}
	return strings.Join(lines, "\n")
}

func atoiOrZero(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}
