package routes

import (
	"fmt"

	"healthdir_backend/internal/handlers"
	"healthdir_backend/internal/logger"
	"healthdir_backend/internal/metrics"
	"healthdir_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers every HTTP route.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
) {
	// System routes
	appHandlers.HealthHandler.RegisterRoutes(ginRouter)
	ginRouter.GET("/metrics", gin.WrapH(metrics.Handler()))

	// HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.SearchHandler.RegisterRoutes(api)
	}

	ginRouter.NoRoute(func(c *gin.Context) {
		apperrors.HandleError(c, apperrors.ErrNotFound(fmt.Errorf("no route for %s %s", c.Request.Method, c.Request.URL.Path)))
	})
	logger.Info("HTTP routes registered", "routes", len(ginRouter.Routes()))
}
