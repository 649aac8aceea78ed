package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrontmatter(t *testing.T) {
	meta, body := splitFrontmatter("---\ntitle: \"Keys\"\norder: 2\n---\nBody text.")
	require.NotNil(t, meta)
	assert.Equal(t, "Keys", meta["title"])
	assert.Equal(t, "2", meta["order"])
	assert.Equal(t, "\nBody text.", body)
}

func TestSplitFrontmatterAbsent(t *testing.T) {
	meta, body := splitFrontmatter("Just a body.")
	assert.Nil(t, meta)
	assert.Equal(t, "Just a body.", body)
}

func TestSplitFrontmatterUnterminated(t *testing.T) {
	raw := "---\ntitle: dangling\nno closing marker"
	meta, body := splitFrontmatter(raw)
	assert.Nil(t, meta)
	assert.Equal(t, raw, body)
}

func TestRenderBody(t *testing.T) {
	body := "# Heading\n\n## Subheading\n\nFirst paragraph.\nSecond paragraph.\n"
	rendered := renderBody(body)
	assert.Equal(t,
		"<h1>Heading</h1>\n<h2>Subheading</h2>\n<p>First paragraph.</p>\n<p>Second paragraph.</p>",
		rendered)
}

func TestRenderBodyEscapesHTML(t *testing.T) {
	rendered := renderBody("<script>alert(1)</script>")
	assert.Equal(t, "<p>&lt;script&gt;alert(1)&lt;/script&gt;</p>", rendered)
}

func TestLessonRetrieval(t *testing.T) {
	root := t.TempDir()
	manifestPath := filepath.Join(root, "catalog_manifest.json")
	courseDir := writeCourse(t, root, "bitcoin-101", fullDescriptor("bitcoin-101"))
	writeLesson(t, courseDir, "keys.md", "---\ntitle: Keys\norder: 1\n---\n# Keys and Addresses\n\nKeys matter.\n")

	_, err := BuildManifest(root, manifestPath)
	require.NoError(t, err)
	cache := NewCache(manifestPath, false)

	lesson, err := cache.Lesson("bitcoin-101", "keys")
	require.NoError(t, err)
	require.NotNil(t, lesson)
	assert.Equal(t, "Keys", lesson.Meta["title"])
	assert.Contains(t, lesson.HTML, "<h1>Keys and Addresses</h1>")
	assert.Contains(t, lesson.HTML, "<p>Keys matter.</p>")
}

func TestLessonNotFound(t *testing.T) {
	root := t.TempDir()
	manifestPath := filepath.Join(root, "catalog_manifest.json")
	writeCourse(t, root, "bitcoin-101", fullDescriptor("bitcoin-101"))
	_, err := BuildManifest(root, manifestPath)
	require.NoError(t, err)
	cache := NewCache(manifestPath, false)

	// missing lesson in an existing course
	lesson, err := cache.Lesson("bitcoin-101", "ghost")
	require.NoError(t, err)
	assert.Nil(t, lesson)

	// missing course entirely
	lesson, err = cache.Lesson("ghost-course", "keys")
	require.NoError(t, err)
	assert.Nil(t, lesson)
}

func TestEmptyLessonIsNotNotFound(t *testing.T) {
	root := t.TempDir()
	manifestPath := filepath.Join(root, "catalog_manifest.json")
	courseDir := writeCourse(t, root, "bitcoin-101", fullDescriptor("bitcoin-101"))
	require.NoError(t, os.MkdirAll(filepath.Join(courseDir, "lessons"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(courseDir, "lessons", "empty.md"), []byte(""), 0o644))

	_, err := BuildManifest(root, manifestPath)
	require.NoError(t, err)
	cache := NewCache(manifestPath, false)

	lesson, err := cache.Lesson("bitcoin-101", "empty")
	require.NoError(t, err)
	require.NotNil(t, lesson)
	assert.Empty(t, lesson.HTML)
}
