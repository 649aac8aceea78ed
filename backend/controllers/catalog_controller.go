package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"portal/backend/config"
	"portal/backend/content"
	"portal/backend/middleware"
	"portal/backend/progress"
	"portal/backend/utils"
)

// CatalogController serves the course catalog from the manifest cache and
// renders lesson bodies on demand.
type CatalogController struct {
	Cache   *content.Cache
	Tracker *progress.Tracker
	Cfg     *config.Config
}

func NewCatalogController(cache *content.Cache, tracker *progress.Tracker, cfg *config.Config) *CatalogController {
	return &CatalogController{Cache: cache, Tracker: tracker, Cfg: cfg}
}

func (cc *CatalogController) SearchCourses(c *fiber.Ctx) error {
	opts := content.SearchOptions{
		Query: c.Query("q"),
		Track: c.Query("track"),
		Sort:  c.Query("sort"),
	}
	if raw := c.Query("level"); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil {
			return utils.BadRequest(c, "Invalid level")
		}
		opts.Level = &level
	}
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				opts.Tags = append(opts.Tags, tag)
			}
		}
	}

	courses, err := cc.Cache.Search(opts)
	if err != nil {
		return manifestError(c, err)
	}
	return c.JSON(fiber.Map{"courses": courses})
}

func (cc *CatalogController) GetCoursesByLevel(c *fiber.Ctx) error {
	level, err := strconv.Atoi(c.Params("level"))
	if err != nil {
		return utils.BadRequest(c, "Invalid level")
	}

	courses, err := cc.Cache.CoursesByLevel(level)
	if err != nil {
		return manifestError(c, err)
	}
	return c.JSON(fiber.Map{"courses": courses})
}

func (cc *CatalogController) GetCoursesByTrack(c *fiber.Ctx) error {
	courses, err := cc.Cache.CoursesByTrack(c.Params("track"))
	if err != nil {
		return manifestError(c, err)
	}
	return c.JSON(fiber.Map{"courses": courses})
}

func (cc *CatalogController) GetCourseDetails(c *fiber.Ctx) error {
	username := middleware.Username(c)
	courseID := c.Params("id")

	course, err := cc.Cache.Course(courseID)
	if err != nil {
		return manifestError(c, err)
	}
	if course == nil {
		return utils.NotFound(c, "Course not found")
	}

	completed, err := cc.Tracker.Completed(username, courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not load progress")
	}
	lastLesson, err := cc.Tracker.GetLast(username, courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not load progress")
	}

	return c.JSON(fiber.Map{
		"course": course,
		"progress": fiber.Map{
			"completed":   completed,
			"last_lesson": lastLesson,
		},
	})
}

// GetLesson renders a lesson body and moves the user's last-viewed
// pointer to it.
func (cc *CatalogController) GetLesson(c *fiber.Ctx) error {
	username := middleware.Username(c)
	courseID := c.Params("id")
	lessonID := c.Params("lessonId")

	course, err := cc.Cache.Course(courseID)
	if err != nil {
		return manifestError(c, err)
	}
	if course == nil {
		return utils.NotFound(c, "Course not found")
	}

	lesson, err := cc.Cache.Lesson(courseID, lessonID)
	if err != nil {
		return utils.InternalServerError(c, "Could not load lesson")
	}
	if lesson == nil {
		return utils.NotFound(c, "Lesson not found")
	}

	for _, entry := range course.Lessons {
		if entry.ID == lessonID {
			if err := cc.Tracker.RecordLast(username, courseID, entry.Order); err != nil {
				return utils.InternalServerError(c, "Could not record progress")
			}
			break
		}
	}

	return c.JSON(fiber.Map{
		"course_id": courseID,
		"lesson_id": lessonID,
		"lesson":    lesson,
		"index":     course.Lessons,
	})
}

// RefreshManifest rebuilds the manifest from the content tree and reloads
// the cache.
func (cc *CatalogController) RefreshManifest(c *fiber.Ctx) error {
	manifest, err := content.BuildManifest(cc.Cfg.ContentRoot, cc.Cfg.ManifestPath)
	if err != nil {
		return utils.InternalServerError(c, "Could not rebuild manifest")
	}
	if _, err := cc.Cache.Refresh(); err != nil {
		return utils.InternalServerError(c, "Could not reload manifest")
	}
	return c.JSON(fiber.Map{
		"message": "Manifest rebuilt",
		"courses": len(manifest.Courses),
	})
}

func manifestError(c *fiber.Ctx, err error) error {
	if errors.Is(err, content.ErrManifestNotBuilt) {
		return utils.ServiceUnavailable(c, "Catalog manifest has not been built")
	}
	return utils.InternalServerError(c, "Could not load catalog")
}
