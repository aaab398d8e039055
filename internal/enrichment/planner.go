package enrichment

import (
	"context"
	"slices"
)

// TablePlanner returns the configured plan for a category with the SLA
// selected by urgency band.
type TablePlanner struct {
	rules *Rules
}

// NewTablePlanner creates a planner over rules.
func NewTablePlanner(rules *Rules) *TablePlanner {
	return &TablePlanner{rules: rules}
}

func (p *TablePlanner) Plan(ctx context.Context, category Category, urgency int, _ string) (Plan, error) {
	if err := ctx.Err(); err != nil {
		return Plan{}, err
	}

	r := p.rules.PlanFor(category)
	return Plan{
		Actions:     slices.Clone(r.Actions),
		Tools:       slices.Clone(r.Tools),
		SafetyNotes: slices.Clone(r.SafetyNotes),
		SLAHours:    r.SLA(urgency),
	}, nil
}
