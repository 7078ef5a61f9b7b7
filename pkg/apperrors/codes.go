package apperrors

// ErrorCode is the machine-readable error identifier sent to clients.
type ErrorCode string

const (
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"
	CodeUnavailable   ErrorCode = "SERVICE_UNAVAILABLE"
	CodeTimeout       ErrorCode = "TIMEOUT"

	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Search
	CodeUnknownEntityType ErrorCode = "UNKNOWN_ENTITY_TYPE"
	CodeLiveSearchFailed  ErrorCode = "LIVE_SEARCH_FAILED"
)
