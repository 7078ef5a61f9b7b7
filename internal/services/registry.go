package services

import (
	"healthdir_backend/internal/services/search"
)

// ServiceContainer holds every service of the application.
type ServiceContainer struct {
	SearchService search.Service
}
