package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthdir_backend/internal/handlers"
	"healthdir_backend/internal/repositories/memory"
	"healthdir_backend/internal/services/dto"
	"healthdir_backend/internal/services/search"
	"healthdir_backend/internal/validator"
	"healthdir_backend/pkg/apperrors"
)

const directory = `
hospitals:
  - id: h-pitie
    name: Hopital Pitie
    city: Paris
    verified: true
    services: [Emergency, Imaging]
    ratings: [5, 4]
    departments:
      - id: d-cardio
        name: Cardiology
  - id: h-edouard
    name: Hopital Edouard Herriot
    city: Lyon
    verified: true
    departments:
      - id: d-ortho
        name: Orthopedics
doctors:
  - id: doc-martin
    name: Dr. Alice Martin
    city: Paris
    gender: FEMALE
    specialization: Cardiology
    experience: "12 years"
    verified: true
    status: APPROVED
    hospital: h-pitie
    department: d-cardio
    ratings: [5, 4]
  - id: doc-lefevre
    name: Dr. Emma Lefevre
    city: Lyon
    gender: FEMALE
    specialization: Orthopedics
    experience: "8"
    verified: true
    status: APPROVED
    hospital: h-edouard
    department: d-ortho
    ratings: [3]
`

func newRouter(t *testing.T, svc search.Service, pinger handlers.Pinger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	base := handlers.NewBaseHandler(validator.New())
	router := gin.New()
	handlers.NewHealthHandler(base, pinger).RegisterRoutes(router)
	handlers.NewSearchHandler(base, svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func newDirectoryRouter(t *testing.T) *gin.Engine {
	t.Helper()
	seed, err := memory.ParseSeed([]byte(directory))
	require.NoError(t, err)
	store, err := memory.New(seed)
	require.NoError(t, err)

	return newRouter(t, search.NewService(store, search.Config{}), store)
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if raw, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(raw))
	} else if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Error struct {
		Code    apperrors.ErrorCode `json:"code"`
		Message string              `json:"message"`
		Details map[string]string   `json:"details"`
	} `json:"error"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestSearchGET(t *testing.T) {
	router := newDirectoryRouter(t)

	w := do(t, router, http.MethodGet, "/api/v1/search?type=doctor&city=paris", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[dto.SearchResponse](t, w)
	require.Len(t, resp.Doctors, 1)
	assert.Equal(t, "doc-martin", resp.Doctors[0].ID)
	assert.EqualValues(t, 1, resp.TotalCount)
	assert.Equal(t, 1, resp.Pagination.Page)

	// the other entity arrays are present and empty
	assert.Contains(t, w.Body.String(), `"hospitals":[]`)
	assert.Contains(t, w.Body.String(), `"departments":[]`)
}

func TestSearchGETRejectsMissingOrUnknownType(t *testing.T) {
	router := newDirectoryRouter(t)

	for _, path := range []string{"/api/v1/search", "/api/v1/search?type=clinic"} {
		w := do(t, router, http.MethodGet, path, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, path)

		body := decode[errorBody](t, w)
		assert.Equal(t, apperrors.CodeValidationFailed, body.Error.Code)
		assert.Contains(t, body.Error.Details, "type")
	}
}

func TestSearchGETRejectsOutOfRangeRating(t *testing.T) {
	router := newDirectoryRouter(t)

	w := do(t, router, http.MethodGet, "/api/v1/search?type=doctor&minRating=7", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchPOST(t *testing.T) {
	router := newDirectoryRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/search", gin.H{
		"type":   "hospital",
		"sortBy": "name_az",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[dto.SearchResponse](t, w)
	require.Len(t, resp.Hospitals, 2)
	assert.Equal(t, "Hopital Edouard Herriot", resp.Hospitals[0].Name)
	assert.Empty(t, resp.Hospitals[0].Services)
	assert.Equal(t, []string{"Emergency", "Imaging"}, resp.Hospitals[1].Services)
	assert.Empty(t, resp.Doctors)
	assert.Len(t, resp.Facets.Cities, 2)
}

func TestSearchPOSTMinRating(t *testing.T) {
	router := newDirectoryRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/search", gin.H{"type": "doctor", "minRating": 4})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.SearchResponse](t, w)
	require.Len(t, resp.Doctors, 1)
	assert.GreaterOrEqual(t, resp.Doctors[0].AvgRating, 4.0)
	// totalCount is counted before the rating filter
	assert.EqualValues(t, 2, resp.TotalCount)
}

func TestSearchPOSTMalformedBody(t *testing.T) {
	router := newDirectoryRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/search", `{"type":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Error.Message, "Invalid request body")
}

func TestLiveSearch(t *testing.T) {
	router := newDirectoryRouter(t)

	w := do(t, router, http.MethodGet, "/api/v1/search/live?query=a", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results":[]}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/v1/search/live?query=cardio&type=all", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[dto.LiveSearchResponse](t, w)
	types := map[string]bool{}
	for _, item := range resp.Results {
		types[item.Type] = true
	}
	assert.True(t, types["department"], "Cardiology department should match")

	w = do(t, router, http.MethodGet, "/api/v1/search/live?query=hop&type=hospital&limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[dto.LiveSearchResponse](t, w).Results, 1)

	w = do(t, router, http.MethodGet, "/api/v1/search/live?query=hop&limit=abc", nil)
	assert.Equal(t, http.StatusOK, w.Code, "a malformed limit falls back to the default")

	w = do(t, router, http.MethodGet, "/api/v1/search/live?query=hop&type=clinic", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFilterSpec(t *testing.T) {
	router := newDirectoryRouter(t)

	w := do(t, router, http.MethodGet, "/api/v1/search/filters/doctor", nil)
	require.Equal(t, http.StatusOK, w.Code)
	spec := decode[dto.FilterSpecResponse](t, w)
	assert.Equal(t, "doctor", spec.Type)
	assert.Contains(t, spec.SortKeys, "experience_high")
	assert.Contains(t, spec.Filters, "minRating")

	w = do(t, router, http.MethodGet, "/api/v1/search/filters/clinic", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CodeUnknownEntityType, decode[errorBody](t, w).Error.Code)
}

type failingService struct {
	search.Service
	err error
}

func (s failingService) LiveSearch(context.Context, *dto.LiveSearchRequest) (*dto.LiveSearchResponse, error) {
	return nil, s.err
}

func TestLiveSearchSurfacesFailure(t *testing.T) {
	router := newRouter(t, failingService{err: apperrors.ErrLiveSearchFailed(errors.New("connection refused"))}, pingFunc(nil))

	w := do(t, router, http.MethodGet, "/api/v1/search/live?query=cardio", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperrors.CodeLiveSearchFailed, decode[errorBody](t, w).Error.Code)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error {
	if f == nil {
		return nil
	}
	return f(ctx)
}

func TestHealth(t *testing.T) {
	router := newDirectoryRouter(t)

	w := do(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	down := newRouter(t, nil, pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }))
	w = do(t, down, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, apperrors.CodeUnavailable, decode[errorBody](t, w).Error.Code)
}
