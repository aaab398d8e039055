package enrichment

import (
	"errors"
	"net/http"
)

var (
	// ErrStageFailed indicates an enrichment stage failed or broke its output contract.
	ErrStageFailed = errors.New("enrichment stage failed")
	// ErrInvalidRules indicates a rule table failed validation at load time.
	ErrInvalidRules = errors.New("invalid enrichment rules")
	// ErrUnsupportedLanguage indicates a language tag outside the supported set.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// MapHTTPStatus maps enrichment errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrStageFailed) {
		return http.StatusBadGateway
	}
	if errors.Is(err, ErrUnsupportedLanguage) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
