package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/JaimeStill/civicdoc/pkg/auth"
	"github.com/JaimeStill/civicdoc/pkg/handlers"
	"github.com/JaimeStill/civicdoc/pkg/routes"
)

const maxBodySize = 16 << 10

// Handler provides HTTP endpoints for registration and login.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "users"),
	}
}

// Routes returns the route group definition for account endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/auth",
		Tags:    []string{"Auth"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/register", Handler: h.Register, OpenAPI: ops.register},
			{Method: "POST", Pattern: "/login", Handler: h.Login, OpenAPI: ops.login},
			{Method: "GET", Pattern: "/me", Handler: auth.Authenticated(h.Me), OpenAPI: ops.me},
		},
	}
}

// Register creates an account. An authenticated admin caller may create admin accounts.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd RegisterCommand
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.respondDecodeError(w, err, ErrInvalidInput)
		return
	}

	caller, _ := auth.FromContext(r.Context())

	u, err := h.sys.Register(r.Context(), caller, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, u)
}

// Login accepts JSON credentials or an OAuth2 password form (username, password).
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var cmd LoginCommand
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			h.respondDecodeError(w, err, ErrInvalidCredentials)
			return
		}
		cmd.Email = r.PostForm.Get("username")
		cmd.Password = r.PostForm.Get("password")
	} else if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.respondDecodeError(w, err, ErrInvalidCredentials)
		return
	}

	token, err := h.sys.Login(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, token)
}

// Me returns the account of the calling principal.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())

	u, err := h.sys.Find(r.Context(), p.UserID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, u)
}

func (h *Handler) respondDecodeError(w http.ResponseWriter, err, invalid error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrBodyTooLarge)
		return
	}
	handlers.RespondError(w, h.logger, http.StatusBadRequest, invalid)
}
