package complaints

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/civicdoc/internal/enrichment"
	"github.com/JaimeStill/civicdoc/pkg/idempotency"
)

// Domain errors for complaint operations.
var (
	ErrNotFound      = errors.New("complaint not found")
	ErrDuplicate     = errors.New("complaint already exists")
	ErrInvalidInput  = errors.New("invalid complaint input")
	ErrInvalidID     = errors.New("invalid complaint id")
	ErrInvalidStatus = errors.New("invalid complaint status")
	ErrUnencodable   = errors.New("list item cannot be encoded")
	ErrBodyTooLarge  = errors.New("request body too large")
)

// MapHTTPStatus maps complaint domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrDuplicate), errors.Is(err, idempotency.ErrInFlight):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, enrichment.ErrUnsupportedLanguage):
		return http.StatusBadRequest
	case errors.Is(err, enrichment.ErrStageFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
