package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthdir_backend/database"
	"healthdir_backend/internal/config"
	"healthdir_backend/internal/handlers"
	"healthdir_backend/internal/logger"
	"healthdir_backend/internal/metrics"
	"healthdir_backend/internal/middleware"
	"healthdir_backend/internal/repositories"
	"healthdir_backend/internal/repositories/memory"
	"healthdir_backend/internal/routes"
	"healthdir_backend/internal/services"
	"healthdir_backend/internal/services/search"
	"healthdir_backend/internal/storage"
	"healthdir_backend/internal/validator"
	"healthdir_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

func Run() {
	if err := config.LoadConfig(); err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.DebugErrors = cfg.IsDev()

	var gormDB *gorm.DB
	if cfg.Storage.Type == config.StoragePostgres {
		var err error
		gormDB, err = openDatabase(cfg)
		if err != nil {
			logger.Fatal("Database setup failed", "error", err)
		}
	}

	repo, err := storage.NewStorage(storage.Config{
		Type:     cfg.Storage.Type,
		DB:       gormDB,
		SeedPath: cfg.Storage.SeedPath,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := SetupRouter(cfg, repo)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
	})

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         address,
		Handler:      corsHandler.Handler(ginRouter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	if err := closeDatabase(gormDB); err != nil {
		logger.Error("Failed to close database", "error", err)
	}
	logger.Info("Server exited")
}

// closeDatabase releases the connection pool; a nil db is a no-op.
func closeDatabase(gormDB *gorm.DB) error {
	if gormDB == nil {
		return nil
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}

// openDatabase connects, migrates and seeds according to cfg.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm(cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(gormDB); err != nil {
			return nil, err
		}
	}

	if cfg.Storage.SeedPath != "" {
		seed, err := memory.LoadSeedFile(cfg.Storage.SeedPath)
		if err != nil {
			return nil, err
		}
		if _, err := database.SeedDirectory(context.Background(), gormDB, seed); err != nil {
			return nil, fmt.Errorf("seed directory: %w", err)
		}
	}
	return gormDB, nil
}

// SetupRouter builds the gin engine over an already opened directory store.
func SetupRouter(cfg *config.Config, repo repositories.DirectoryRepository) *gin.Engine {
	// 1. Services
	serviceContainer := initializeServices(cfg, repo)

	// 2. Handlers
	appHandlers := initializeHandlers(serviceContainer, repo)

	// 3. Gin
	ginRouter := initializeGinRouter()

	// 4. Routes
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, repo repositories.DirectoryRepository) *services.ServiceContainer {
	searchService := search.NewService(repo, search.Config{
		DefaultLimit:     cfg.Search.DefaultLimit,
		MaxLimit:         cfg.Search.MaxLimit,
		LiveDefaultLimit: cfg.Search.LiveDefaultLimit,
		LiveMaxLimit:     cfg.Search.LiveMaxLimit,
		Timeout:          cfg.Search.Timeout,
	})

	return &services.ServiceContainer{
		SearchService: searchService,
	}
}

func initializeHandlers(services *services.ServiceContainer, repo repositories.DirectoryRepository) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		SearchHandler: handlers.NewSearchHandler(baseHandler, services.SearchService),
		HealthHandler: handlers.NewHealthHandler(baseHandler, repo),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.Middleware())
	return router
}
