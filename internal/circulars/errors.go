package circulars

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/civicdoc/pkg/storage"
)

// Domain errors for circular operations.
var (
	ErrNotFound         = errors.New("circular not found")
	ErrDuplicate        = errors.New("circular already exists")
	ErrInvalidID        = errors.New("invalid circular id")
	ErrInvalidFile      = errors.New("only PDF circulars are accepted")
	ErrFileTooLarge     = errors.New("file exceeds maximum upload size")
	ErrExtractionFailed = errors.New("circular text extraction failed")
)

// MapHTTPStatus maps circular domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
