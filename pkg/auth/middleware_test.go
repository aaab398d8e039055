package auth_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/civicdoc/pkg/auth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMiddleware(t *testing.T) {
	tokens := auth.NewTokens(testConfig())
	token, err := tokens.Issue(auth.Principal{UserID: 7, Email: "pwd@example.org", Role: auth.RoleDepartmentAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var seen *auth.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := auth.Middleware(tokens, discardLogger())(next)

	tests := []struct {
		name      string
		header    string
		want      int
		wantPrinc bool
	}{
		{"anonymous passes through", "", http.StatusNoContent, false},
		{"valid bearer", "Bearer " + token, http.StatusNoContent, true},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized, false},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, false},
		{"invalid token", "Bearer abc.def.ghi", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if (seen != nil) != tt.wantPrinc {
				t.Errorf("principal present = %v, want %v", seen != nil, tt.wantPrinc)
			}
			if tt.wantPrinc && seen.UserID != 7 {
				t.Errorf("user id = %d, want 7", seen.UserID)
			}
		})
	}
}

func TestRequire(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	h := auth.Require(auth.CapUploadCircular, ok)

	tests := []struct {
		name string
		p    *auth.Principal
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"citizen", &auth.Principal{UserID: 1, Role: auth.RoleCitizen}, http.StatusForbidden},
		{"admin", &auth.Principal{UserID: 2, Role: auth.RoleDepartmentAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", nil)
			if tt.p != nil {
				req = req.WithContext(auth.WithPrincipal(req.Context(), tt.p))
			}
			rec := httptest.NewRecorder()
			h(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAuthenticated(t *testing.T) {
	h := auth.Authenticated(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), &auth.Principal{UserID: 1, Role: auth.RoleCitizen}))
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", rec.Code)
	}
}
