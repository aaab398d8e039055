package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/civicdoc/pkg/handlers"
)

type contextKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the principal attached by Middleware, if any.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(*Principal)
	return p, ok && p != nil
}

// Middleware authenticates bearer tokens. Requests without an Authorization
// header pass through anonymously; a malformed or invalid token is rejected with 401.
func Middleware(tokens *Tokens, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrInvalidToken)
				return
			}

			p, err := tokens.Verify(strings.TrimSpace(token))
			if err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// Require wraps next so it only runs for principals whose role grants c.
func Require(c Capability, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := FromContext(r.Context())
		if !ok {
			handlers.RespondJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized.Error()})
			return
		}
		if !p.Role.Can(c) {
			handlers.RespondJSON(w, http.StatusForbidden, map[string]string{"error": ErrForbidden.Error()})
			return
		}
		next(w, r)
	}
}

// Authenticated wraps next so it only runs for requests carrying a principal.
func Authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			handlers.RespondJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized.Error()})
			return
		}
		next(w, r)
	}
}
