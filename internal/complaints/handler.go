package complaints

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/civicdoc/pkg/auth"
	"github.com/JaimeStill/civicdoc/pkg/handlers"
	"github.com/JaimeStill/civicdoc/pkg/pagination"
	"github.com/JaimeStill/civicdoc/pkg/routes"
)

// IdempotencyHeader carries the client-chosen key for safe submission retries.
const IdempotencyHeader = "Idempotency-Key"

// ReplayedHeader is set on responses that return a previously created complaint.
const ReplayedHeader = "Idempotent-Replayed"

// maxBodySize bounds JSON request bodies; a maximal description fits with room for escaping.
const maxBodySize = 64 << 10

// Handler provides HTTP endpoints for complaint operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "complaints"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for complaint endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/complaints",
		Tags:    []string{"Complaints"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: auth.Require(auth.CapSubmitComplaint, h.Create), OpenAPI: ops.create},
			{Method: "GET", Pattern: "", Handler: auth.Require(auth.CapListComplaints, h.List), OpenAPI: ops.list},
			{Method: "GET", Pattern: "/sorted", Handler: auth.Require(auth.CapListComplaints, h.Sorted), OpenAPI: ops.sorted},
			{Method: "GET", Pattern: "/{id}", Handler: auth.Require(auth.CapViewComplaint, h.Find), OpenAPI: ops.find},
			{Method: "PATCH", Pattern: "/{id}/status", Handler: auth.Require(auth.CapUpdateComplaintStatus, h.UpdateStatus), OpenAPI: ops.updateStatus},
		},
	}
}

// Create submits a complaint for the calling citizen. A repeated Idempotency-Key
// returns the original complaint with 200 instead of 201.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := decodeBody(w, r, &cmd); err != nil {
		h.respondDecodeError(w, err, ErrInvalidInput)
		return
	}

	p, _ := auth.FromContext(r.Context())
	cmd.CitizenID = p.Subject()

	c, replayed, err := h.sys.Submit(r.Context(), r.Header.Get(IdempotencyHeader), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if replayed {
		w.Header().Set(ReplayedHeader, "true")
		handlers.RespondJSON(w, http.StatusOK, c)
		return
	}
	handlers.RespondJSON(w, http.StatusCreated, c)
}

// List returns a paginated list of complaints with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Sorted returns every complaint ordered by urgency, highest first.
func (h *Handler) Sorted(w http.ResponseWriter, r *http.Request) {
	items, err := h.sys.Sorted(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Find returns a single complaint. Citizens only see their own complaints.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	c, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if p, _ := auth.FromContext(r.Context()); p.Role == auth.RoleCitizen && c.CitizenID != p.Subject() {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// UpdateStatus moves a complaint to the status in the request body.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var cmd StatusCommand
	if err := decodeBody(w, r, &cmd); err != nil {
		h.respondDecodeError(w, err, ErrInvalidStatus)
		return
	}

	c, err := h.sys.UpdateStatus(r.Context(), id, cmd.Status)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalidID
	}
	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) respondDecodeError(w http.ResponseWriter, err, invalid error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrBodyTooLarge)
		return
	}
	handlers.RespondError(w, h.logger, http.StatusBadRequest, invalid)
}
