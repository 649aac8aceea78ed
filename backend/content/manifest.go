package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ManifestFileName is the catalog manifest written under the content root.
const ManifestFileName = "catalog_manifest.json"

// requiredCourseFields must all be present in a course.json descriptor for
// the course to be marked valid. Invalid courses are still included in the
// manifest so one broken descriptor never hides the rest of the catalog.
var requiredCourseFields = []string{
	"id",
	"title",
	"level",
	"track",
	"estimated_hours",
	"prerequisites",
	"learning_objectives",
	"tags",
}

// LessonIndex is the lightweight lesson entry persisted in the manifest.
// Lesson bodies stay on disk and are loaded lazily per request.
type LessonIndex struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// CourseEntry is validated course metadata for the manifest.
type CourseEntry struct {
	ID                 string        `json:"id"`
	Title              string        `json:"title"`
	Level              int           `json:"level"`
	Track              string        `json:"track"`
	EstimatedHours     float64       `json:"estimated_hours"`
	Prerequisites      []string      `json:"prerequisites"`
	LearningObjectives []string      `json:"learning_objectives"`
	Tags               []string      `json:"tags"`
	Summary            string        `json:"summary,omitempty"`
	Author             string        `json:"author,omitempty"`
	LastUpdated        string        `json:"last_updated,omitempty"`
	Difficulty         string        `json:"difficulty,omitempty"`
	Lessons            []LessonIndex `json:"lessons"`
	QuizAvailable      bool          `json:"quiz"`
	Path               string        `json:"path"`
	Valid              bool          `json:"valid"`
	Errors             []string      `json:"errors"`
}

// Manifest is the single cached document describing the whole catalog.
type Manifest struct {
	Courses []CourseEntry `json:"courses"`
}

type courseDescriptor struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Level              int      `json:"level"`
	Track              string   `json:"track"`
	EstimatedHours     float64  `json:"estimated_hours"`
	Prerequisites      []string `json:"prerequisites"`
	LearningObjectives []string `json:"learning_objectives"`
	Tags               []string `json:"tags"`
	Summary            string   `json:"summary"`
	Author             string   `json:"author"`
	LastUpdated        string   `json:"last_updated"`
	Difficulty         string   `json:"difficulty"`
}

// BuildManifest scans root for course descriptors and writes the manifest
// to manifestPath. The write is atomic (temp file + rename) so readers
// never observe a partial manifest. A malformed descriptor produces an
// invalid placeholder entry instead of aborting the scan.
func BuildManifest(root, manifestPath string) (*Manifest, error) {
	descriptors, err := findCourseDescriptors(root)
	if err != nil {
		return nil, fmt.Errorf("scan content root: %w", err)
	}

	manifest := &Manifest{Courses: []CourseEntry{}}
	for _, descriptorPath := range descriptors {
		manifest.Courses = append(manifest.Courses, buildCourseEntry(descriptorPath))
	}

	if err := writeManifest(manifest, manifestPath); err != nil {
		return nil, err
	}
	return manifest, nil
}

func findCourseDescriptors(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == "course.json" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func buildCourseEntry(descriptorPath string) CourseEntry {
	courseDir := filepath.Dir(descriptorPath)

	raw, err := os.ReadFile(descriptorPath)
	if err != nil {
		return invalidCourseEntry(courseDir, fmt.Sprintf("load error: %v", err))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return invalidCourseEntry(courseDir, fmt.Sprintf("load error: %v", err))
	}

	var descriptor courseDescriptor
	if err := json.Unmarshal(raw, &descriptor); err != nil {
		return invalidCourseEntry(courseDir, fmt.Sprintf("load error: %v", err))
	}

	missing := missingFields(fields)

	entry := CourseEntry{
		ID:                 descriptor.ID,
		Title:              descriptor.Title,
		Level:              descriptor.Level,
		Track:              descriptor.Track,
		EstimatedHours:     descriptor.EstimatedHours,
		Prerequisites:      emptyIfNil(descriptor.Prerequisites),
		LearningObjectives: emptyIfNil(descriptor.LearningObjectives),
		Tags:               emptyIfNil(descriptor.Tags),
		Summary:            descriptor.Summary,
		Author:             descriptor.Author,
		LastUpdated:        descriptor.LastUpdated,
		Difficulty:         descriptor.Difficulty,
		Lessons:            buildLessonIndex(courseDir),
		QuizAvailable:      fileExists(filepath.Join(courseDir, "quiz.json")),
		Path:               courseDir,
		Valid:              len(missing) == 0,
		Errors:             missing,
	}
	if entry.Title == "" {
		entry.Title = "Untitled Course"
	}
	return entry
}

func invalidCourseEntry(courseDir, reason string) CourseEntry {
	return CourseEntry{
		ID:                 filepath.Base(courseDir),
		Title:              "Invalid course",
		Track:              "unknown",
		Prerequisites:      []string{},
		LearningObjectives: []string{},
		Tags:               []string{},
		Lessons:            []LessonIndex{},
		Path:               courseDir,
		Valid:              false,
		Errors:             []string{reason},
	}
}

func missingFields(fields map[string]json.RawMessage) []string {
	missing := []string{}
	for _, name := range requiredCourseFields {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// buildLessonIndex reads lessons/*.md under the course directory and
// indexes them by the order declared in their frontmatter. A lesson that
// cannot be read is skipped rather than failing the whole course.
func buildLessonIndex(courseDir string) []LessonIndex {
	pattern := filepath.Join(courseDir, "lessons", "*.md")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return []LessonIndex{}
	}
	sort.Strings(files)

	lessons := []LessonIndex{}
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		lessonID := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		meta, _ := splitFrontmatter(string(raw))

		title := meta["title"]
		if title == "" {
			title = lessonID
		}
		order := 0
		if v := meta["order"]; v != "" {
			order = atoiOrZero(v)
		}
		lessons = append(lessons, LessonIndex{ID: lessonID, Title: title, Order: order})
	}

	sort.SliceStable(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })
	return lessons
}

func writeManifest(manifest *Manifest, manifestPath string) error {
	dir := filepath.Dir(manifestPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}

	payload, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return fmt.Errorf("create temp manifest: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp manifest: %w", err)
	}
	if err := os.Rename(tmpName, manifestPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
