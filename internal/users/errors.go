package users

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/civicdoc/pkg/auth"
)

// Domain errors for account operations.
var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicate          = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid registration")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInactive           = errors.New("account is inactive")
	ErrBodyTooLarge       = errors.New("request body too large")
)

// MapHTTPStatus maps account domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, auth.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInactive), errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
