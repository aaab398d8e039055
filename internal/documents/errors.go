package documents

import (
	"errors"
	"net/http"
)

// Domain errors for document generation.
var (
	ErrInvalidRequest = errors.New("invalid document request")
	ErrRenderFailed   = errors.New("document rendering failed")
)

// MapHTTPStatus maps document domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrRenderFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
