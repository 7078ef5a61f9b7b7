package handlers

import (
	"net/http"

	"healthdir_backend/internal/services/dto"
	"healthdir_backend/internal/services/search"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	*BaseHandler
	searchService search.Service
}

func NewSearchHandler(base *BaseHandler, searchService search.Service) *SearchHandler {
	return &SearchHandler{
		BaseHandler:   base,
		searchService: searchService,
	}
}

func (h *SearchHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public search routes
	group := r.Group("/search")
	{
		group.GET("", h.Search)
		group.POST("", h.SearchJSON)
		group.GET("/live", h.LiveSearch)
		group.GET("/filters/:type", h.GetFilterSpec)
	}
}

// Search godoc
// @Summary   Directory search (query parameters)
// @Tags      search
// @Produce   json
// @Param     type  query  string  true  "doctor | hospital | department"
// @Success   200  {object}  dto.SearchResponse
// @Failure   400  {object}  apperrors.ErrorResponse
// @Router    /api/v1/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	c.JSON(http.StatusOK, h.searchService.Search(c.Request.Context(), &req))
}

// SearchJSON godoc
// @Summary   Directory search (JSON body)
// @Tags      search
// @Accept    json
// @Produce   json
// @Param     request  body  dto.SearchRequest  true  "Search request"
// @Success   200  {object}  dto.SearchResponse
// @Failure   400  {object}  apperrors.ErrorResponse
// @Router    /api/v1/search [post]
func (h *SearchHandler) SearchJSON(c *gin.Context) {
	var req dto.SearchRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, h.searchService.Search(c.Request.Context(), &req))
}

// LiveSearch godoc
// @Summary   Type-ahead suggestions across the directory
// @Tags      search
// @Produce   json
// @Param     query  query  string  true   "At least two characters"
// @Param     type   query  string  false  "all | doctor | hospital | department"
// @Param     limit  query  int     false  "Maximum results"
// @Success   200  {object}  dto.LiveSearchResponse
// @Failure   500  {object}  apperrors.ErrorResponse
// @Router    /api/v1/search/live [get]
func (h *SearchHandler) LiveSearch(c *gin.Context) {
	var req dto.LiveSearchRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}
	req.Limit = ParseQueryInt(c, "limit", 0)

	resp, err := h.searchService.LiveSearch(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetFilterSpec godoc
// @Summary   Filters and sort keys accepted for one entity type
// @Tags      search
// @Produce   json
// @Param     type  path  string  true  "doctor | hospital | department"
// @Success   200  {object}  dto.FilterSpecResponse
// @Failure   400  {object}  apperrors.ErrorResponse
// @Router    /api/v1/search/filters/{type} [get]
func (h *SearchHandler) GetFilterSpec(c *gin.Context) {
	resp, err := h.searchService.FilterSpec(c.Param("type"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
