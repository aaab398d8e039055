package complaints

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JaimeStill/civicdoc/internal/enrichment"
	"github.com/JaimeStill/civicdoc/pkg/events"
	"github.com/JaimeStill/civicdoc/pkg/idempotency"
	"github.com/JaimeStill/civicdoc/pkg/pagination"
)

// MaxDescriptionLength bounds complaint descriptions in characters.
const MaxDescriptionLength = 5000

// Event types published by the complaint system.
const (
	EventCreated       = "complaint.created"
	EventStatusChanged = "complaint.status_changed"
)

type repo struct {
	store      Store
	pipeline   *enrichment.Pipeline
	events     events.Publisher
	idem       idempotency.Store
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// Option configures optional collaborators of the complaint system.
type Option func(*repo)

// WithEvents publishes complaint lifecycle events through p.
func WithEvents(p events.Publisher) Option {
	return func(r *repo) { r.events = p }
}

// WithIdempotency guards Submit with s.
func WithIdempotency(s idempotency.Store) Option {
	return func(r *repo) { r.idem = s }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *repo) { r.now = now }
}

// New creates a complaint system implementing the System interface.
func New(
	store Store,
	pipeline *enrichment.Pipeline,
	logger *slog.Logger,
	pagination pagination.Config,
	opts ...Option,
) System {
	r := &repo{
		store:      store,
		pipeline:   pipeline,
		events:     events.Noop(),
		idem:       idempotency.Noop(),
		logger:     logger.With("system", "complaints"),
		pagination: pagination,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Complaint, error) {
	in, err := r.validate(cmd)
	if err != nil {
		return nil, err
	}

	res, err := r.pipeline.Enrich(ctx, in)
	if err != nil {
		return nil, err
	}

	urgency := res.UrgencyScore
	c := Complaint{
		CitizenID:         cmd.CitizenID,
		Description:       in.Description,
		Language:          res.Language,
		Category:          res.Category,
		UrgencyScore:      &urgency,
		Department:        res.Department,
		EstimatedCost:     res.EstimatedCost,
		RequiredResources: res.RequiredResources,
		SuggestedActions:  res.SuggestedActions,
		ToolsRequired:     res.ToolsRequired,
		SafetyNotes:       res.SafetyNotes,
		SLAHours:          res.SLAHours,
		Status:            StatusPending,
		CreatedAt:         r.now().UTC().Truncate(time.Microsecond),
	}

	id, err := r.store.Insert(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("insert complaint: %w", err)
	}

	created, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.logger.Info(
		"complaint created",
		"id", created.ID,
		"category", created.Category,
		"urgency", urgency,
		"department", created.Department,
	)
	r.publish(ctx, EventCreated, created.ID, created)
	return created, nil
}

func (r *repo) Submit(ctx context.Context, key string, cmd CreateCommand) (*Complaint, bool, error) {
	if key == "" {
		c, err := r.Create(ctx, cmd)
		return c, false, err
	}

	scoped := cmd.CitizenID + ":" + key

	res, err := r.idem.Reserve(ctx, scoped)
	switch {
	case errors.Is(err, idempotency.ErrInFlight):
		return nil, false, err
	case err != nil:
		r.logger.Warn("idempotency reserve failed, continuing without key", "error", err)
		c, err := r.Create(ctx, cmd)
		return c, false, err
	}

	if !res.Acquired {
		id, err := strconv.ParseInt(res.Value, 10, 64)
		if err != nil {
			return nil, false, fmt.Errorf("idempotency record %q: %w", res.Value, err)
		}
		c, err := r.store.Get(ctx, id)
		if err != nil {
			return nil, false, err
		}
		return c, true, nil
	}

	c, err := r.Create(ctx, cmd)
	if err != nil {
		if relErr := r.idem.Release(ctx, scoped); relErr != nil {
			r.logger.Warn("idempotency release failed", "error", relErr)
		}
		return nil, false, err
	}

	if err := r.idem.Complete(ctx, scoped, strconv.FormatInt(c.ID, 10)); err != nil {
		r.logger.Warn("idempotency complete failed", "id", c.ID, "error", err)
		if relErr := r.idem.Release(ctx, scoped); relErr != nil {
			r.logger.Warn("idempotency release failed", "id", c.ID, "error", relErr)
		}
	}
	return c, false, nil
}

func (r *repo) Find(ctx context.Context, id int64) (*Complaint, error) {
	return r.store.Get(ctx, id)
}

func (r *repo) ListAll(ctx context.Context) ([]Complaint, error) {
	return r.store.ListAll(ctx)
}

func (r *repo) Sorted(ctx context.Context) ([]Complaint, error) {
	items, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return SortByUrgency(items), nil
}

func (r *repo) UpdateStatus(ctx context.Context, id int64, status Status) (*Complaint, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if err := r.store.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	c, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.logger.Info("complaint status updated", "id", id, "status", status)
	r.publish(ctx, EventStatusChanged, id, map[string]any{
		"id":     id,
		"status": status,
	})
	return c, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Complaint], error) {
	if err := filters.validate(); err != nil {
		return nil, err
	}

	page.Normalize(r.pagination)
	page.Sort = page.Sort.Known(projection.Has)

	return r.store.List(ctx, page, filters)
}

func (r *repo) validate(cmd CreateCommand) (enrichment.Input, error) {
	if !utf8.ValidString(cmd.Description) || strings.ContainsRune(cmd.Description, 0) {
		return enrichment.Input{}, fmt.Errorf("%w: description must be valid UTF-8 without NUL bytes", ErrInvalidInput)
	}

	desc := strings.TrimSpace(cmd.Description)
	if desc == "" {
		return enrichment.Input{}, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return enrichment.Input{}, fmt.Errorf(
			"%w: description exceeds %d characters",
			ErrInvalidInput, MaxDescriptionLength,
		)
	}

	in := enrichment.Input{Description: desc}
	if cmd.Language != nil && strings.TrimSpace(*cmd.Language) != "" {
		lang, err := enrichment.NormalizeLanguage(*cmd.Language)
		if err != nil {
			return enrichment.Input{}, err
		}
		in.Language = lang
	}
	return in, nil
}

func (r *repo) publish(ctx context.Context, eventType string, id int64, payload any) {
	e := events.New(eventType, strconv.FormatInt(id, 10), payload)
	if err := r.events.Publish(ctx, e); err != nil {
		r.logger.Warn("event publish failed", "type", eventType, "id", id, "error", err)
	}
}
