package auth

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("authentication required")
	ErrInvalidToken = errors.New("invalid or expired access token")
	ErrForbidden    = errors.New("insufficient role for this operation")
	ErrInvalidRole  = errors.New("invalid role")
)

// MapHTTPStatus maps authentication errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrInvalidToken) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrInvalidRole) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
