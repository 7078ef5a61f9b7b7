package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"healthdir_backend/internal/config"
	"healthdir_backend/internal/middleware"
	"healthdir_backend/internal/repositories/memory"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := memory.New(memory.Seed{})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Storage.Type = config.StorageMemory
	return SetupRouter(cfg, store)
}

func TestSetupRouterServesSystemRoutes(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health", "/metrics", "/api/v1/search?type=doctor", "/api/v1/search/filters/hospital"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader), "a request id is minted when none is sent")
}

func TestEmptyDirectorySearch(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/search?type=doctor", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"doctors":[]`)
	assert.Contains(t, w.Body.String(), `"totalCount":0`)
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/clinics", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"NOT_FOUND"`)
}

func TestCloseDatabase(t *testing.T) {
	assert.NoError(t, closeDatabase(nil))

	// no ping, so no server is needed
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "postgres://localhost:1/none"}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	require.NoError(t, closeDatabase(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.ErrorContains(t, sqlDB.Ping(), "database is closed")
}
