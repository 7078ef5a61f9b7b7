package handlers

import (
	"context"
	"net/http"
	"time"

	"healthdir_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the directory store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	*BaseHandler
	store   Pinger
	started time.Time
}

func NewHealthHandler(base *BaseHandler, store Pinger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: base,
		store:       store,
		started:     time.Now(),
	}
}

// RegisterRoutes mounts /health on the root router, outside /api/v1.
func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.Health)
}

// Health godoc
// @Summary   Liveness and store reachability
// @Tags      system
// @Produce   json
// @Success   200  {object}  map[string]interface{}
// @Failure   503  {object}  apperrors.ErrorResponse
// @Router    /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.HandleServiceError(c, apperrors.ErrUnavailable(err, "store"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}
