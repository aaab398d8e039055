package documents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/JaimeStill/civicdoc/internal/circulars"
	"github.com/JaimeStill/civicdoc/internal/complaints"
	"github.com/JaimeStill/civicdoc/pkg/auth"
	"github.com/JaimeStill/civicdoc/pkg/web"
)

// ComplaintFinder loads complaints referenced by document requests.
type ComplaintFinder interface {
	Find(ctx context.Context, id int64) (*complaints.Complaint, error)
}

// CircularFinder loads circulars referenced by document requests.
type CircularFinder interface {
	Find(ctx context.Context, id int64) (*circulars.Circular, error)
}

type repo struct {
	complaints   ComplaintFinder
	circulars    CircularFinder
	templates    *web.TemplateSet
	logger       *slog.Logger
	municipality string
	now          func() time.Time
}

// Option configures the document system.
type Option func(*repo)

// WithClock sets the clock used for generation timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *repo) { r.now = now }
}

// New creates a document system implementing the System interface.
// Templates are parsed here so a broken template fails startup.
func New(
	complaintFinder ComplaintFinder,
	circularFinder CircularFinder,
	logger *slog.Logger,
	municipality string,
	opts ...Option,
) (System, error) {
	ts, err := newTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse document templates: %w", err)
	}

	if strings.TrimSpace(municipality) == "" {
		municipality = PlaceholderMunicipality
	}

	r := &repo{
		complaints:   complaintFinder,
		circulars:    circularFinder,
		templates:    ts,
		logger:       logger.With("system", "documents"),
		municipality: municipality,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) RTI(ctx context.Context, req RTIRequest) ([]byte, error) {
	if err := require(
		"applicant_name", req.ApplicantName,
		"address", req.Address,
		"information_sought", req.InformationSought,
	); err != nil {
		return nil, err
	}
	if err := validIDs(req.ComplaintID, req.CircularID); err != nil {
		return nil, err
	}

	view := rtiView{
		RTIRequest:    req,
		Department:    PlaceholderDepartment,
		OfficeAddress: PlaceholderOfficeAddress,
		GeneratedAt:   r.now(),
	}

	c, err := r.complaint(ctx, req.ComplaintID)
	if err != nil {
		return nil, err
	}
	if c != nil && c.Department != "" {
		view.Department = c.Department
		view.OfficeAddress = fmt.Sprintf("%s Office, %s", c.Department, r.municipality)
	}

	ci, err := r.circular(ctx, req.CircularID)
	if err != nil {
		return nil, err
	}
	if ci != nil {
		view.CircularSummary = ci.Summary
		view.Rules = ci.Rules
	}

	return r.render(KindRTI, view)
}

func (r *repo) SchemeApplication(ctx context.Context, req SchemeApplicationRequest) ([]byte, error) {
	if err := require(
		"applicant_name", req.ApplicantName,
		"address", req.Address,
		"scheme_name", req.SchemeName,
	); err != nil {
		return nil, err
	}
	if err := validIDs(req.CircularID); err != nil {
		return nil, err
	}

	view := schemeView{
		SchemeApplicationRequest: req,
		GeneratedAt:              r.now(),
	}

	ci, err := r.circular(ctx, req.CircularID)
	if err != nil {
		return nil, err
	}
	if ci != nil {
		view.CircularSummary = ci.Summary
		view.Eligibility = ci.Eligibility
		view.Deadlines = ci.Deadlines
	}

	return r.render(KindSchemeApplication, view)
}

func (r *repo) OfficialNotice(ctx context.Context, req NoticeRequest) ([]byte, error) {
	if err := require(
		"recipient", req.Recipient,
		"sender", req.Sender,
		"subject", req.Subject,
	); err != nil {
		return nil, err
	}
	if err := validIDs(req.ComplaintID, req.CircularID); err != nil {
		return nil, err
	}

	var parts []string
	if body := strings.TrimSpace(req.Body); body != "" {
		parts = append(parts, body)
	}

	c, err := r.complaint(ctx, req.ComplaintID)
	if err != nil {
		return nil, err
	}
	if c != nil {
		parts = append(parts, complaintParagraphs(c)...)
	}

	ci, err := r.circular(ctx, req.CircularID)
	if err != nil {
		return nil, err
	}
	if ci != nil {
		parts = append(parts, circularParagraphs(ci)...)
	}

	if len(parts) == 0 {
		parts = append(parts, PlaceholderNoticeBody)
	}
	req.Body = strings.Join(parts, "\n\n")

	return r.render(KindOfficialNotice, noticeView{
		NoticeRequest: req,
		Municipality:  r.municipality,
		GeneratedAt:   r.now(),
	})
}

func (r *repo) WorkOrder(ctx context.Context, req WorkOrderRequest) (*WorkOrder, error) {
	wo, err := r.prepareWorkOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	html, err := r.render(KindWorkOrder, wo)
	if err != nil {
		return nil, err
	}
	wo.GeneratedHTML = string(html)

	return wo, nil
}

func (r *repo) WorkOrderImage(ctx context.Context, req WorkOrderRequest) ([]byte, error) {
	wo, err := r.prepareWorkOrder(ctx, req)
	if err != nil {
		return nil, err
	}
	return renderWorkOrderPNG(wo)
}

// prepareWorkOrder fills fields the caller left empty from the referenced complaint.
func (r *repo) prepareWorkOrder(ctx context.Context, req WorkOrderRequest) (*WorkOrder, error) {
	if err := validIDs(req.ComplaintID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = complaints.StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, status)
	}

	wo := &WorkOrder{
		ComplaintID:        req.ComplaintID,
		AssignedDepartment: strings.TrimSpace(req.AssignedDepartment),
		TaskDescription:    strings.TrimSpace(req.TaskDescription),
		CallerName:         strings.TrimSpace(req.CallerName),
		CallerContact:      strings.TrimSpace(req.CallerContact),
		EstimatedCost:      req.EstimatedCost,
		SuggestedActions:   slices.Clone(req.SuggestedActions),
		Status:             status,
		Municipality:       r.municipality,
		GeneratedAt:        r.now(),
	}

	c, err := r.complaint(ctx, req.ComplaintID)
	if err != nil {
		return nil, err
	}
	if c != nil {
		if wo.TaskDescription == "" && c.Description != "" {
			wo.TaskDescription = fmt.Sprintf("Work related to complaint ID %d: %s", c.ID, c.Description)
		}
		if wo.AssignedDepartment == "" {
			wo.AssignedDepartment = c.Department
		}
		if (wo.EstimatedCost == nil || *wo.EstimatedCost == 0) && c.EstimatedCost > 0 {
			cost := c.EstimatedCost
			wo.EstimatedCost = &cost
		}
		if len(wo.SuggestedActions) == 0 {
			wo.SuggestedActions = slices.Clone(c.SuggestedActions)
		}
		if wo.CallerName == "" && c.CitizenID != "" {
			wo.CallerName = "Citizen ID: " + c.CitizenID
		}
		if wo.CallerContact == "" {
			wo.CallerContact = PlaceholderCallerContact
		}
	}

	if wo.SuggestedActions == nil {
		wo.SuggestedActions = []string{}
	}
	return wo, nil
}

func (r *repo) render(kind Kind, data any) ([]byte, error) {
	out, err := render(r.templates, kind, data)
	if err != nil {
		return nil, err
	}
	r.logger.Info("document generated", "kind", kind, "bytes", len(out))
	return out, nil
}

// complaint returns nil when id is nil, the complaint does not exist, or a
// citizen caller does not own it.
func (r *repo) complaint(ctx context.Context, id *int64) (*complaints.Complaint, error) {
	if id == nil {
		return nil, nil
	}

	c, err := r.complaints.Find(ctx, *id)
	if errors.Is(err, complaints.ErrNotFound) {
		r.logger.Debug("referenced complaint not found", "complaint_id", *id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load complaint %d: %w", *id, err)
	}

	if p, ok := auth.FromContext(ctx); ok && p.Role == auth.RoleCitizen && c.CitizenID != p.Subject() {
		return nil, nil
	}
	return c, nil
}

// circular returns nil when id is nil or the circular does not exist.
func (r *repo) circular(ctx context.Context, id *int64) (*circulars.Circular, error) {
	if id == nil {
		return nil, nil
	}

	c, err := r.circulars.Find(ctx, *id)
	if errors.Is(err, circulars.ErrNotFound) {
		r.logger.Debug("referenced circular not found", "circular_id", *id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load circular %d: %w", *id, err)
	}
	return c, nil
}

func complaintParagraphs(c *complaints.Complaint) []string {
	urgency := "unscored"
	if c.UrgencyScore != nil {
		urgency = fmt.Sprintf("%d/100", *c.UrgencyScore)
	}

	parts := []string{fmt.Sprintf(
		"Regarding your complaint (ID: %d, Category: %s, Urgency: %s) submitted on %s: %s",
		c.ID, c.Category, urgency, c.CreatedAt.Format("2006-01-02"), c.Description,
	)}
	if len(c.SuggestedActions) > 0 {
		parts = append(parts, fmt.Sprintf("Suggested actions include: %s.", strings.Join(c.SuggestedActions, ", ")))
	}
	return parts
}

func circularParagraphs(c *circulars.Circular) []string {
	parts := []string{fmt.Sprintf(
		"Reference is made to circular '%s' (ID: %d). Summary: %s",
		c.Filename, c.ID, c.Summary,
	)}
	if len(c.Rules) > 0 {
		texts := make([]string, len(c.Rules))
		for i, rule := range c.Rules {
			texts[i] = rule.Text
		}
		parts = append(parts, "Key rules extracted: "+strings.Join(texts, "; "))
	}
	return parts
}

// require takes name/value pairs and reports the first blank value.
func require(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidRequest, pairs[i])
		}
	}
	return nil
}

func validIDs(ids ...*int64) error {
	for _, id := range ids {
		if id != nil && *id < 1 {
			return fmt.Errorf("%w: reference ids must be positive", ErrInvalidRequest)
		}
	}
	return nil
}
