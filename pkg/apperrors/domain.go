package apperrors

import "net/http"

const DomainSearch = "search"

// ErrUnknownEntityType is returned for a search over anything other than
// doctor, hospital or department.
var ErrUnknownEntityType = New(
	CodeUnknownEntityType,
	DomainSearch,
	"Unknown entity type; expected doctor, hospital or department",
	http.StatusBadRequest,
)

// ErrLiveSearchFailed wraps a store failure during live search. Unlike the
// main search, live search reports failures to the caller.
func ErrLiveSearchFailed(err error) *AppError {
	return Wrap(err, CodeLiveSearchFailed, DomainSearch, "Live search failed", http.StatusInternalServerError)
}
