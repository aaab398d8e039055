package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// Pipeline runs the enrichment stages in order: language, categorization,
// cost estimate, action plan. Any stage error or contract violation aborts
// the run with ErrStageFailed and no partial result.
type Pipeline struct {
	detector    LanguageDetector
	categorizer Categorizer
	estimator   CostEstimator
	planner     ActionPlanner
	logger      *slog.Logger
}

// Option replaces a default stage implementation.
type Option func(*Pipeline)

// WithDetector sets the language detector.
func WithDetector(d LanguageDetector) Option {
	return func(p *Pipeline) { p.detector = d }
}

// WithCategorizer sets the categorizer.
func WithCategorizer(c Categorizer) Option {
	return func(p *Pipeline) { p.categorizer = c }
}

// WithEstimator sets the cost estimator.
func WithEstimator(e CostEstimator) Option {
	return func(p *Pipeline) { p.estimator = e }
}

// WithPlanner sets the action planner.
func WithPlanner(a ActionPlanner) Option {
	return func(p *Pipeline) { p.planner = a }
}

// NewPipeline creates a pipeline whose default stages are driven by rules.
func NewPipeline(rules *Rules, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		detector:    NewDetector(),
		categorizer: NewKeywordCategorizer(rules),
		estimator:   NewTableEstimator(rules),
		planner:     NewTablePlanner(rules),
		logger:      logger.With("system", "enrichment"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enrich derives every computed complaint field for in.
func (p *Pipeline) Enrich(ctx context.Context, in Input) (*Result, error) {
	lang := in.Language
	if lang == "" {
		lang = p.detector.Detect(in.Description)
	}

	cat, err := p.categorizer.Categorize(ctx, in.Description)
	if err == nil {
		err = checkCategorization(cat)
	}
	if err != nil {
		return nil, p.stageError("categorize", err)
	}

	est, err := p.estimator.Estimate(ctx, cat.Category, in.Description)
	if err == nil {
		err = checkEstimate(est)
	}
	if err != nil {
		return nil, p.stageError("estimate", err)
	}

	plan, err := p.planner.Plan(ctx, cat.Category, cat.UrgencyScore, in.Description)
	if err == nil {
		err = checkPlan(plan)
	}
	if err != nil {
		return nil, p.stageError("plan", err)
	}

	p.logger.Debug(
		"complaint enriched",
		"language", lang,
		"category", cat.Category,
		"urgency", cat.UrgencyScore,
		"sla_hours", plan.SLAHours,
	)

	return &Result{
		Language:          lang,
		Category:          cat.Category,
		UrgencyScore:      cat.UrgencyScore,
		Department:        cat.Department,
		EstimatedCost:     est.Cost,
		RequiredResources: est.Resources,
		SuggestedActions:  plan.Actions,
		ToolsRequired:     plan.Tools,
		SafetyNotes:       plan.SafetyNotes,
		SLAHours:          plan.SLAHours,
	}, nil
}

func (p *Pipeline) stageError(stage string, err error) error {
	p.logger.Error("enrichment stage failed", "stage", stage, "error", err)
	return fmt.Errorf("%w: %s: %v", ErrStageFailed, stage, err)
}

func checkCategorization(c Categorization) error {
	if !c.Category.Valid() {
		return fmt.Errorf("category %q not in category set", c.Category)
	}
	if c.UrgencyScore < 0 || c.UrgencyScore > MaxUrgency {
		return fmt.Errorf("urgency %d out of range", c.UrgencyScore)
	}
	if c.Department == "" {
		return fmt.Errorf("department missing")
	}
	return nil
}

func checkEstimate(e Estimate) error {
	if e.Cost < 0 || math.IsNaN(e.Cost) || math.IsInf(e.Cost, 0) {
		return fmt.Errorf("cost %v invalid", e.Cost)
	}
	if len(e.Resources) == 0 {
		return fmt.Errorf("resources missing")
	}
	return nil
}

func checkPlan(p Plan) error {
	if len(p.Actions) == 0 || len(p.Tools) == 0 || len(p.SafetyNotes) == 0 {
		return fmt.Errorf("plan lists incomplete")
	}
	if p.SLAHours <= 0 {
		return fmt.Errorf("sla %d not positive", p.SLAHours)
	}
	return nil
}
