package documents

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/civicdoc/pkg/auth"
	"github.com/JaimeStill/civicdoc/pkg/handlers"
	"github.com/JaimeStill/civicdoc/pkg/routes"
	"github.com/JaimeStill/civicdoc/pkg/web"
)

// Handler provides HTTP endpoints for document generation.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "documents"),
	}
}

// Routes returns the route group definition for document endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/documents",
		Tags:    []string{"Documents"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/rti", Handler: auth.Require(auth.CapGenerateRTI, h.RTI), OpenAPI: ops.rti},
			{Method: "POST", Pattern: "/scheme-application", Handler: auth.Require(auth.CapGenerateSchemeApplication, h.SchemeApplication), OpenAPI: ops.scheme},
			{Method: "POST", Pattern: "/official-notice", Handler: auth.Require(auth.CapGenerateNotice, h.OfficialNotice), OpenAPI: ops.notice},
			{Method: "POST", Pattern: "/work-order", Handler: auth.Require(auth.CapGenerateWorkOrder, h.WorkOrder), OpenAPI: ops.workOrder},
		},
	}
}

// RTI renders a Right to Information application as HTML.
func (h *Handler) RTI(w http.ResponseWriter, r *http.Request) {
	var req RTIRequest
	if !h.decode(w, r, &req) {
		return
	}

	html, err := h.sys.RTI(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	web.WriteHTML(w, http.StatusOK, html)
}

// SchemeApplication renders a scheme application as HTML.
func (h *Handler) SchemeApplication(w http.ResponseWriter, r *http.Request) {
	var req SchemeApplicationRequest
	if !h.decode(w, r, &req) {
		return
	}

	html, err := h.sys.SchemeApplication(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	web.WriteHTML(w, http.StatusOK, html)
}

// OfficialNotice renders an official notice as HTML.
func (h *Handler) OfficialNotice(w http.ResponseWriter, r *http.Request) {
	var req NoticeRequest
	if !h.decode(w, r, &req) {
		return
	}

	html, err := h.sys.OfficialNotice(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	web.WriteHTML(w, http.StatusOK, html)
}

// WorkOrder returns the work order as JSON, or as a PNG when format=png.
func (h *Handler) WorkOrder(w http.ResponseWriter, r *http.Request) {
	var req WorkOrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	if r.URL.Query().Get("format") == "png" {
		img, err := h.sys.WorkOrderImage(r.Context(), req)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(img)
		return
	}

	wo, err := h.sys.WorkOrder(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, wo)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return false
	}
	return true
}
