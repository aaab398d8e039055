package enrichment

import (
	"context"
	"slices"
)

// TableEstimator returns the fixed cost and resources configured for a category.
type TableEstimator struct {
	rules *Rules
}

// NewTableEstimator creates an estimator over rules.
func NewTableEstimator(rules *Rules) *TableEstimator {
	return &TableEstimator{rules: rules}
}

func (e *TableEstimator) Estimate(ctx context.Context, category Category, _ string) (Estimate, error) {
	if err := ctx.Err(); err != nil {
		return Estimate{}, err
	}

	c := e.rules.CostFor(category)
	return Estimate{
		Cost:      c.Amount,
		Resources: slices.Clone(c.Resources),
	}, nil
}
