package circulars

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/civicdoc/pkg/auth"
	"github.com/JaimeStill/civicdoc/pkg/handlers"
	"github.com/JaimeStill/civicdoc/pkg/pagination"
	"github.com/JaimeStill/civicdoc/pkg/routes"
)

// Handler provides HTTP endpoints for circular operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, pagination config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "circulars"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for circular endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/circulars",
		Tags:    []string{"Circulars"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: auth.Require(auth.CapUploadCircular, h.Upload), OpenAPI: ops.upload},
			{Method: "GET", Pattern: "", Handler: auth.Require(auth.CapViewCirculars, h.List), OpenAPI: ops.list},
			{Method: "GET", Pattern: "/{id}", Handler: auth.Require(auth.CapViewCirculars, h.Find), OpenAPI: ops.find},
			{Method: "GET", Pattern: "/{id}/file", Handler: auth.Require(auth.CapViewCirculars, h.Download), OpenAPI: ops.download},
		},
	}
}

// Upload ingests a multipart "file" field holding a PDF circular.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	c, err := h.sys.Create(r.Context(), UploadCommand{Filename: header.Filename, Data: data})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, c)
}

// List returns a paginated list of circulars.
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

// Find returns a single circular with its analysis.
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

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Download streams the original PDF.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	c, body, err := h.sys.Open(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", pdfContentType)
	if c.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(c.SizeBytes, 10))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", c.Filename))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("circular download interrupted", "id", id, "error", err)
	}
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalidID
	}
	return id, nil
}
