package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	return r
}

func TestMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := newRouter()
	r.GET("/api/v1/search/filters/:type", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/search/filters/doctor", http.NoBody))
	require.Equal(t, http.StatusOK, rr.Code)

	// The route template is the label, not the concrete path.
	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/search/filters/:type", "200"))
	assert.GreaterOrEqual(t, val, 1.0)
	assert.Positive(t, testutil.CollectAndCount(httpRequestDuration))
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := newRouter()
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/error", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	tests := []struct {
		path, route, status string
	}{
		{"/ok", "/ok", "200"},
		{"/error", "/error", "500"},
		{"/missing", "unknown", "404"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.route, tc.status))
			assert.GreaterOrEqual(t, val, 1.0)
		})
	}
}

func TestObserveSearch(t *testing.T) {
	before := testutil.ToFloat64(searchRequestsTotal.WithLabelValues("doctor", OutcomeFailSoft))
	ObserveSearch("doctor", OutcomeFailSoft, 3*time.Millisecond)
	after := testutil.ToFloat64(searchRequestsTotal.WithLabelValues("doctor", OutcomeFailSoft))
	assert.Equal(t, before+1, after)

	ObserveSearch("", OutcomeOK, time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(searchRequestsTotal.WithLabelValues("unknown", OutcomeOK)), 1.0)

	ObserveStage("count", time.Millisecond)
	assert.Positive(t, testutil.CollectAndCount(searchStageDuration))
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveStage("fetch", time.Millisecond)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "healthdir_search_stage_duration_seconds"))
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "unknown", normalizePath(""))
	assert.Equal(t, "/health", normalizePath("/health"))
}
