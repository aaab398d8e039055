package enrichment_test

import (
	"context"
	"testing"

	"github.com/JaimeStill/civicdoc/internal/enrichment"
)

func allCategories() []enrichment.Category {
	return append(enrichment.Categories(), enrichment.Category("unlisted"))
}

func TestTableEstimatorContract(t *testing.T) {
	e := enrichment.NewTableEstimator(mustRules(t))

	for _, c := range allCategories() {
		t.Run(string(c), func(t *testing.T) {
			est, err := e.Estimate(context.Background(), c, "any description")
			if err != nil {
				t.Fatalf("Estimate: %v", err)
			}
			if est.Cost < 0 {
				t.Errorf("cost = %v, want >= 0", est.Cost)
			}
			if len(est.Resources) == 0 {
				t.Error("resources empty")
			}
		})
	}
}

func TestTableEstimatorReturnsCopies(t *testing.T) {
	rules := mustRules(t)
	e := enrichment.NewTableEstimator(rules)

	est, _ := e.Estimate(context.Background(), enrichment.CategoryRoads, "")
	est.Resources[0] = "mutated"

	if got := rules.CostFor(enrichment.CategoryRoads).Resources[0]; got != "Asphalt" {
		t.Errorf("rule table mutated through estimate: %q", got)
	}
}

func TestTablePlannerContract(t *testing.T) {
	p := enrichment.NewTablePlanner(mustRules(t))

	for _, c := range allCategories() {
		t.Run(string(c), func(t *testing.T) {
			for u := 0; u <= 100; u++ {
				plan, err := p.Plan(context.Background(), c, u, "")
				if err != nil {
					t.Fatalf("Plan: %v", err)
				}
				if len(plan.Actions) == 0 || len(plan.Tools) == 0 || len(plan.SafetyNotes) == 0 {
					t.Fatalf("urgency %d: incomplete plan %+v", u, plan)
				}
				if plan.SLAHours <= 0 {
					t.Fatalf("urgency %d: sla %d not positive", u, plan.SLAHours)
				}
			}
		})
	}
}

func TestTablePlannerSLAMonotonic(t *testing.T) {
	p := enrichment.NewTablePlanner(mustRules(t))
	ctx := context.Background()

	for _, c := range allCategories() {
		t.Run(string(c), func(t *testing.T) {
			sla := make([]int, 101)
			for u := range sla {
				plan, _ := p.Plan(ctx, c, u, "")
				sla[u] = plan.SLAHours
			}
			for hi := 0; hi <= 100; hi++ {
				for lo := 0; lo < hi; lo++ {
					if sla[hi] > sla[lo] {
						t.Fatalf("sla(%d) = %d exceeds sla(%d) = %d", hi, sla[hi], lo, sla[lo])
					}
				}
			}
		})
	}
}
