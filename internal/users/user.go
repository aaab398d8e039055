// Package users manages accounts and issues access tokens.
package users

import (
	"time"

	"github.com/JaimeStill/civicdoc/pkg/auth"
)

// User is an account without its credential hash.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      auth.Role `json:"role"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Principal returns the token identity for u.
func (u User) Principal() auth.Principal {
	return auth.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// RegisterCommand creates an account. Role defaults to citizen.
type RegisterCommand struct {
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role,omitempty"`
}

// LoginCommand exchanges credentials for an access token.
type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
