package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrManifestNotBuilt is returned when the manifest file does not exist
// yet. It is distinct from a manifest with zero courses so operators can
// tell "never built" from "built, empty catalog".
var ErrManifestNotBuilt = errors.New("manifest not built, run the manifest build command")

// Cache holds the parsed manifest in memory. With autoReload enabled
// (development mode) every access checks the manifest file's mtime and
// transparently reloads when it changed; in production the manifest is
// loaded once and never re-checked.
type Cache struct {
	path       string
	autoReload bool

	mu        sync.Mutex
	manifest  *Manifest
	lastMtime time.Time
}

// NewCache creates a manifest cache for the given manifest path.
func NewCache(path string, autoReload bool) *Cache {
	return &Cache{path: path, autoReload: autoReload}
}

// Load returns the cached manifest, reading it from disk on first use or
// after the file changed in auto-reload mode.
func (c *Cache) Load() (*Manifest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.manifest != nil && !c.needsReload() {
		return c.manifest, nil
	}
	return c.loadLocked()
}

// Refresh drops the cached manifest and re-reads it from disk.
func (c *Cache) Refresh() (*Manifest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.manifest = nil
	c.lastMtime = time.Time{}
	return c.loadLocked()
}

func (c *Cache) loadLocked() (*Manifest, error) {
	info, err := os.Stat(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrManifestNotBuilt
	}
	if err != nil {
		return nil, fmt.Errorf("stat manifest: %w", err)
	}

	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if manifest.Courses == nil {
		manifest.Courses = []CourseEntry{}
	}

	c.manifest = &manifest
	c.lastMtime = info.ModTime()
	return c.manifest, nil
}

func (c *Cache) needsReload() bool {
	if !c.autoReload {
		return false
	}
	info, err := os.Stat(c.path)
	if err != nil {
		return true
	}
	return info.ModTime().After(c.lastMtime)
}

// Courses returns every course in the manifest, valid or not.
func (c *Cache) Courses() ([]CourseEntry, error) {
	manifest, err := c.Load()
	if err != nil {
		return nil, err
	}
	return manifest.Courses, nil
}

// Course looks up a single course by id. A nil entry means not found.
func (c *Cache) Course(id string) (*CourseEntry, error) {
	courses, err := c.Courses()
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].ID == id {
			return &courses[i], nil
		}
	}
	return nil, nil
}

// CoursesByLevel filters the catalog to one level.
func (c *Cache) CoursesByLevel(level int) ([]CourseEntry, error) {
	courses, err := c.Courses()
	if err != nil {
		return nil, err
	}
	matched := []CourseEntry{}
	for _, course := range courses {
		if course.Level == level {
			matched = append(matched, course)
		}
	}
	return matched, nil
}

// CoursesByTrack filters the catalog to one track.
func (c *Cache) CoursesByTrack(track string) ([]CourseEntry, error) {
	courses, err := c.Courses()
	if err != nil {
		return nil, err
	}
	matched := []CourseEntry{}
	for _, course := range courses {
		if course.Track == track {
			matched = append(matched, course)
		}
	}
	return matched, nil
}

// SearchOptions narrows and orders a catalog search. A nil Level means
// any level; empty strings and slices are ignored.
type SearchOptions struct {
	Query string
	Level *int
	Track string
	Tags  []string
	Sort  string // one of "", "title", "estimated_hours", "level"
}

// Search filters courses by substring match on title/summary/tags plus
// the optional level, track and tag-set filters, then applies the sort
// key when one is given.
func (c *Cache) Search(opts SearchOptions) ([]CourseEntry, error) {
	courses, err := c.Courses()
	if err != nil {
		return nil, err
	}

	matched := []CourseEntry{}
	for _, course := range courses {
		if opts.Query != "" && !matchesQuery(course, opts.Query) {
			continue
		}
		if opts.Level != nil && course.Level != *opts.Level {
			continue
		}
		if opts.Track != "" && course.Track != opts.Track {
			continue
		}
		if len(opts.Tags) > 0 && !hasAllTags(course, opts.Tags) {
			continue
		}
		matched = append(matched, course)
	}

	switch opts.Sort {
	case "title":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })
	case "estimated_hours":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].EstimatedHours < matched[j].EstimatedHours })
	case "level":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Level < matched[j].Level })
	}
	return matched, nil
}

func matchesQuery(course CourseEntry, query string) bool {
	lowered := strings.ToLower(query)
	if strings.Contains(strings.ToLower(course.Title), lowered) {
		return true
	}
	if strings.Contains(strings.ToLower(course.Summary), lowered) {
		return true
	}
	for _, tag := range course.Tags {
		if strings.Contains(strings.ToLower(tag), lowered) {
			return true
		}
	}
	return false
}

func hasAllTags(course CourseEntry, wanted []string) bool {
	have := make(map[string]bool, len(course.Tags))
	for _, tag := range course.Tags {
		have[tag] = true
	}
	for _, tag := range wanted {
		if !have[tag] {
			return false
		}
	}
	return true
}
