package routes

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"portal/backend/config"
	"portal/backend/content"
	"portal/backend/database"
)

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	cfg   *config.Config
	token string
}

// newTestEnv builds a content tree with one course (two lessons and a
// quiz), its manifest, a fresh SQLite database and a registered user.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	workDir := t.TempDir()
	contentRoot := filepath.Join(workDir, "content")

	courseDir := filepath.Join(contentRoot, "bitcoin-101")
	require.NoError(t, os.MkdirAll(filepath.Join(courseDir, "lessons"), 0o755))

	descriptor := map[string]interface{}{
		"id":                  "bitcoin-101",
		"title":               "Bitcoin 101",
		"level":               1,
		"track":               "fundamentals",
		"estimated_hours":     4,
		"prerequisites":       []string{},
		"learning_objectives": []string{"understand keys"},
		"tags":                []string{"bitcoin", "privacy"},
		"summary":             "Bitcoin from first principles.",
	}
	payload, err := json.Marshal(descriptor)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(courseDir, "course.json"), payload, 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(courseDir, "lessons", "intro.md"),
		[]byte("---\ntitle: Intro\norder: 1\n---\n# Welcome\n\nFirst steps.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(courseDir, "lessons", "keys.md"),
		[]byte("---\ntitle: Keys\norder: 2\n---\n# Keys\n\nKeys matter.\n"), 0o644))

	quiz := map[string]interface{}{
		"passing_score": 0.5,
		"questions": []map[string]interface{}{
			{"type": "mcq", "prompt": "Who controls Bitcoin?", "options": []string{"A company", "No one"}, "answer_index": 1, "explanation": "No central party."},
			{"type": "true_false", "prompt": "Supply is capped.", "answer": "true", "explanation": "21 million."},
		},
	}
	quizPayload, err := json.Marshal(quiz)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(courseDir, "quiz.json"), quizPayload, 0o644))

	cfg := &config.Config{
		ServerPort:   "8080",
		JWTSecret:    "testsecret",
		DBPath:       filepath.Join(workDir, "portal.db"),
		ContentRoot:  contentRoot,
		ManifestPath: filepath.Join(contentRoot, "catalog_manifest.json"),
		CertDir:      filepath.Join(workDir, "certs"),
	}

	_, err = content.BuildManifest(cfg.ContentRoot, cfg.ManifestPath)
	require.NoError(t, err)

	db, err := database.Connect(cfg)
	require.NoError(t, err)

	app := fiber.New()
	SetupRoutes(app, db, content.NewCache(cfg.ManifestPath, false), cfg)

	env := &testEnv{app: app, db: db, cfg: cfg}
	env.token = env.register(t, "alice", "correct horse battery")
	return env
}

func (e *testEnv) register(t *testing.T, username, password string) string {
	t.Helper()
	body := e.doJSON(t, "POST", "/api/auth/register", "", map[string]string{
		"username": username,
		"password": password,
	}, fiber.StatusOK)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, payload interface{}, wantStatus int) map[string]interface{} {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := e.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, "%s %s", method, path)

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return decoded
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	body := env.doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "correct horse battery",
	}, fiber.StatusOK)
	assert.NotEmpty(t, body["token"])

	env.doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	}, fiber.StatusUnauthorized)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	env := newTestEnv(t)

	env.doJSON(t, "POST", "/api/auth/register", "", map[string]string{
		"username": "bob",
		"password": "short",
	}, fiber.StatusBadRequest)
}

func TestCatalogRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	env.doJSON(t, "GET", "/api/courses/", "", nil, fiber.StatusUnauthorized)
}

func TestSearchCourses(t *testing.T) {
	env := newTestEnv(t)

	body := env.doJSON(t, "GET", "/api/courses/?tags=privacy", env.token, nil, fiber.StatusOK)
	courses, _ := body["courses"].([]interface{})
	require.Len(t, courses, 1)

	none := env.doJSON(t, "GET", "/api/courses/?tags=ethereum", env.token, nil, fiber.StatusOK)
	noCourses, _ := none["courses"].([]interface{})
	assert.Empty(t, noCourses)
}

func TestCourseDetailsAndLessonView(t *testing.T) {
	env := newTestEnv(t)

	details := env.doJSON(t, "GET", "/api/courses/bitcoin-101", env.token, nil, fiber.StatusOK)
	course, _ := details["course"].(map[string]interface{})
	require.NotNil(t, course)
	assert.Equal(t, "Bitcoin 101", course["title"])

	lesson := env.doJSON(t, "GET", "/api/courses/bitcoin-101/lessons/keys", env.token, nil, fiber.StatusOK)
	rendered, _ := lesson["lesson"].(map[string]interface{})
	require.NotNil(t, rendered)
	assert.Contains(t, rendered["html"], "<h1>Keys</h1>")

	// viewing the lesson moved the last-viewed pointer
	progress := env.doJSON(t, "GET", "/api/progress/bitcoin-101", env.token, nil, fiber.StatusOK)
	assert.Equal(t, float64(2), progress["last_lesson"])
}

func TestLessonNotFound(t *testing.T) {
	env := newTestEnv(t)

	env.doJSON(t, "GET", "/api/courses/bitcoin-101/lessons/ghost", env.token, nil, fiber.StatusNotFound)
	env.doJSON(t, "GET", "/api/courses/ghost/lessons/keys", env.token, nil, fiber.StatusNotFound)
}

func TestQuizIsSanitized(t *testing.T) {
	env := newTestEnv(t)

	body := env.doJSON(t, "GET", "/api/courses/bitcoin-101/quiz", env.token, nil, fiber.StatusOK)
	questions, _ := body["questions"].([]interface{})
	require.Len(t, questions, 2)

	for _, raw := range questions {
		question := raw.(map[string]interface{})
		assert.NotContains(t, question, "answer")
		assert.NotContains(t, question, "answer_index")
		assert.NotContains(t, question, "explanation")
	}
}

func TestQuizSubmitFailThenPass(t *testing.T) {
	env := newTestEnv(t)

	fail := env.doJSON(t, "POST", "/api/courses/bitcoin-101/quiz", env.token, map[string]interface{}{
		"answers": map[string]string{"0": "0", "1": "false"},
	}, fiber.StatusOK)
	assert.Equal(t, false, fail["passed"])
	assert.Equal(t, float64(0), fail["score"])
	assert.NotContains(t, fail, "certificate")

	pass := env.doJSON(t, "POST", "/api/courses/bitcoin-101/quiz", env.token, map[string]interface{}{
		"answers": map[string]string{"0": "1", "1": "True"},
	}, fiber.StatusOK)
	assert.Equal(t, true, pass["passed"])
	assert.Equal(t, float64(1), pass["score"])

	cert, _ := pass["certificate"].(map[string]interface{})
	require.NotNil(t, cert)
	assert.NotEmpty(t, cert["id"])

	history := env.doJSON(t, "GET", "/api/courses/bitcoin-101/attempts", env.token, nil, fiber.StatusOK)
	attempts, _ := history["attempts"].([]interface{})
	require.Len(t, attempts, 2)
	newest := attempts[0].(map[string]interface{})
	assert.Equal(t, float64(1), newest["score"])
}

func TestMarkCompleteAndStats(t *testing.T) {
	env := newTestEnv(t)

	env.doJSON(t, "POST", "/api/progress/bitcoin-101/complete", env.token, map[string]interface{}{
		"lesson_order": 1,
		"time_spent":   300,
	}, fiber.StatusOK)
	env.doJSON(t, "POST", "/api/progress/bitcoin-101/last", env.token, map[string]interface{}{
		"lesson_order": 2,
	}, fiber.StatusOK)

	progress := env.doJSON(t, "GET", "/api/progress/bitcoin-101", env.token, nil, fiber.StatusOK)
	completed, _ := progress["completed"].([]interface{})
	require.Len(t, completed, 1)
	assert.Equal(t, float64(1), completed[0])
	assert.Equal(t, float64(2), progress["last_lesson"])

	stats := env.doJSON(t, "GET", "/api/progress/", env.token, nil, fiber.StatusOK)
	perCourse, _ := stats["stats"].(map[string]interface{})
	require.Contains(t, perCourse, "bitcoin-101")
}

func TestManifestNotBuiltIsDistinctFromEmpty(t *testing.T) {
	env := newTestEnv(t)

	// point a second app at a manifest that was never built
	missingCfg := *env.cfg
	missingCfg.ManifestPath = filepath.Join(t.TempDir(), "never-built.json")

	app := fiber.New()
	SetupRoutes(app, env.db, content.NewCache(missingCfg.ManifestPath, false), &missingCfg)
	missing := &testEnv{app: app, token: env.token}
	missing.doJSON(t, "GET", "/api/courses/", env.token, nil, fiber.StatusServiceUnavailable)

	// an empty but built manifest serves an empty catalog instead
	emptyPath := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(emptyPath, []byte(`{"courses": []}`), 0o644))
	emptyCfg := *env.cfg
	emptyCfg.ManifestPath = emptyPath

	emptyApp := fiber.New()
	SetupRoutes(emptyApp, env.db, content.NewCache(emptyPath, false), &emptyCfg)
	empty := &testEnv{app: emptyApp, token: env.token}
	body := empty.doJSON(t, "GET", "/api/courses/", env.token, nil, fiber.StatusOK)
	courses, _ := body["courses"].([]interface{})
	assert.Empty(t, courses)
}

func TestManifestRefreshPicksUpNewCourse(t *testing.T) {
	env := newTestEnv(t)

	newCourse := filepath.Join(env.cfg.ContentRoot, "privacy-201")
	require.NoError(t, os.MkdirAll(newCourse, 0o755))
	descriptor := map[string]interface{}{
		"id": "privacy-201", "title": "Privacy 201", "level": 2, "track": "privacy",
		"estimated_hours": 6, "prerequisites": []string{"bitcoin-101"},
		"learning_objectives": []string{"coin control"}, "tags": []string{"privacy"},
	}
	payload, err := json.Marshal(descriptor)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(newCourse, "course.json"), payload, 0o644))

	refreshed := env.doJSON(t, "POST", "/api/admin/manifest/refresh", env.token, nil, fiber.StatusOK)
	assert.Equal(t, float64(2), refreshed["courses"])

	details := env.doJSON(t, "GET", "/api/courses/privacy-201", env.token, nil, fiber.StatusOK)
	course, _ := details["course"].(map[string]interface{})
	require.NotNil(t, course)
	assert.Equal(t, "Privacy 201", course["title"])
}

func TestWalletProxyNotConfigured(t *testing.T) {
	env := newTestEnv(t)

	env.doJSON(t, "POST", "/api/tools/wallet/invoice", env.token, map[string]interface{}{
		"amount": 1000,
	}, fiber.StatusServiceUnavailable)
}
