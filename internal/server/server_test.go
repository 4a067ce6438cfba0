package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"jobflow/config"
	"jobflow/internal/catalog"
	"jobflow/internal/database"
	"jobflow/internal/middleware"
	"jobflow/internal/storage"
	"jobflow/internal/testutils"
	"jobflow/internal/ui"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Admin.APIKey = "test-admin-key"
	return cfg
}

func createTestDeps(t *testing.T, cat *catalog.Catalog) Deps {
	t.Helper()
	registry := ui.NewRegistry(ui.Options{ToastDuration: time.Hour, Debounce: 10 * time.Millisecond})
	t.Cleanup(registry.Close)
	return Deps{
		Catalog:  cat,
		Sessions: storage.NewManager(storage.NewMemoryStore(), zap.NewNop()),
		Chrome:   registry,
	}
}

func createTestServer(t *testing.T) *Server {
	t.Helper()
	testutils.SetupGinTestMode()
	server, err := New(createTestConfig(), zap.NewNop(), createTestDeps(t, testutils.NewTestCatalog(time.Now())))
	require.NoError(t, err)
	return server
}

func TestNew(t *testing.T) {
	testutils.SetupGinTestMode()
	cfg := createTestConfig()
	logger := zap.NewNop()

	server, err := New(cfg, logger, createTestDeps(t, testutils.NewTestCatalog(time.Now())))
	require.NoError(t, err)

	assert.NotNil(t, server.Router)
	assert.NotNil(t, server.RateLimiter)
	assert.Equal(t, cfg, server.config)
	assert.Equal(t, logger, server.logger)
}

func TestNew_MissingDeps(t *testing.T) {
	testutils.SetupGinTestMode()
	_, err := New(createTestConfig(), zap.NewNop(), Deps{})
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	server := createTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	server.Router.ServeHTTP(w, req)

	testutils.AssertJSONResponse(t, w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "jobflow-api",
	})
}

func TestHealthCheck_HEAD(t *testing.T) {
	server := createTestServer(t)

	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, httptest.NewRequest("HEAD", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReadinessCheck(t *testing.T) {
	server := createTestServer(t)

	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, httptest.NewRequest("GET", "/ready", nil))

	testutils.AssertJSONResponse(t, w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": map[string]interface{}{"catalog": "loaded"},
	})
}

func TestReadinessCheck_CatalogNotLoaded(t *testing.T) {
	testutils.SetupGinTestMode()
	missing := catalog.NewSource(filepath.Join(t.TempDir(), "missing.json"), nil)
	cat := catalog.New(missing, missing, zap.NewNop())
	require.Error(t, cat.Reload(context.Background()))

	server, err := New(createTestConfig(), zap.NewNop(), createTestDeps(t, cat))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, httptest.NewRequest("GET", "/ready", nil))

	testutils.AssertJSONResponse(t, w, http.StatusServiceUnavailable, map[string]interface{}{
		"status": "not ready",
	})
}

func TestReadinessCheck_Database(t *testing.T) {
	testutils.SetupGinTestMode()
	cfg := createTestConfig()
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "ready.db")
	db, err := database.Open(cfg, zap.NewNop())
	require.NoError(t, err)

	deps := createTestDeps(t, testutils.NewTestCatalog(time.Now()))
	deps.DB = db
	server, err := New(cfg, zap.NewNop(), deps)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, httptest.NewRequest("GET", "/ready", nil))
	testutils.AssertJSONResponse(t, w, http.StatusOK, map[string]interface{}{
		"checks": map[string]interface{}{"catalog": "loaded", "database": "healthy"},
	})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w = httptest.NewRecorder()
	server.Router.ServeHTTP(w, httptest.NewRequest("GET", "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMiddlewareChain(t *testing.T) {
	server := createTestServer(t)

	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/jobs", nil))

	require.Equal(t, http.StatusOK, w.Code)
	testutils.ValidateUUID(t, w.Header().Get(middleware.SessionHeader))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "1000", w.Header().Get("X-RateLimit-Limit"))
}

func TestCORSPreflight(t *testing.T) {
	server := createTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/jobs", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutesShareSessionState(t *testing.T) {
	server := createTestServer(t)
	client := testutils.NewTestHTTPClient(server.Router)

	testutils.AssertJSONResponse(t, client.POST("/api/v1/search", `{"q":"designer"}`), http.StatusOK, map[string]interface{}{
		"redirect": "/jobs?q=designer",
	})
	testutils.AssertJSONResponse(t, client.POST("/api/v1/session/saved-jobs/5", ""), http.StatusOK, map[string]interface{}{
		"changed": true,
	})

	var list struct {
		Jobs []struct {
			ID    string `json:"id"`
			Saved bool   `json:"saved"`
		} `json:"jobs"`
		Count int `json:"count"`
	}
	testutils.ParseJSONResponse(t, client.GET("/api/v1/jobs?q=designer"), &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "5", list.Jobs[0].ID)
	assert.True(t, list.Jobs[0].Saved)

	var toasts ui.ToastState
	testutils.ParseJSONResponse(t, client.GET("/api/v1/ui/toasts"), &toasts)
	require.NotNil(t, toasts.Visible)
	assert.Equal(t, "Job saved to your list", toasts.Visible.Message)
}

func TestAdminRoutes(t *testing.T) {
	server := createTestServer(t)

	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/admin/catalog", nil))
	testutils.AssertErrorResponse(t, w, http.StatusUnauthorized, "MISSING_API_KEY")

	req := httptest.NewRequest("GET", "/api/v1/admin/catalog", nil)
	req.Header.Set("X-API-Key", "wrong")
	w = httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	testutils.AssertErrorResponse(t, w, http.StatusUnauthorized, "INVALID_API_KEY")

	req = httptest.NewRequest("GET", "/api/v1/admin/catalog", nil)
	req.Header.Set("X-API-Key", "test-admin-key")
	w = httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	testutils.AssertJSONResponse(t, w, http.StatusOK, map[string]interface{}{
		"loaded": true,
		"jobs":   float64(20),
	})
}

func TestAdminRoutes_DisabledWithoutKey(t *testing.T) {
	testutils.SetupGinTestMode()
	cfg := createTestConfig()
	cfg.Admin.APIKey = ""
	server, err := New(cfg, zap.NewNop(), createTestDeps(t, testutils.NewTestCatalog(time.Now())))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/admin/catalog/reload", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimitApplies(t *testing.T) {
	testutils.SetupGinTestMode()
	cfg := createTestConfig()
	cfg.RateLimit.Requests = 2
	server, err := New(cfg, zap.NewNop(), createTestDeps(t, testutils.NewTestCatalog(time.Now())))
	require.NoError(t, err)

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		server.Router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
