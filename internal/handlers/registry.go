package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	SearchHandler *SearchHandler
	HealthHandler *HealthHandler
}
