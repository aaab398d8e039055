package enrichment_test

import (
	"context"
	"slices"
	"testing"

	"github.com/JaimeStill/civicdoc/internal/enrichment"
)

func TestKeywordCategorizerCategories(t *testing.T) {
	c := enrichment.NewKeywordCategorizer(mustRules(t))

	tests := []struct {
		description string
		want        enrichment.Category
	}{
		{"Large pothole on Main St, urgent!", enrichment.CategoryRoads},
		{"Water pipe leak flooding the lane", enrichment.CategoryWater},
		{"Garbage and trash not collected for a week", enrichment.CategoryGarbage},
		{"Sewer overflowing near the manhole", enrichment.CategorySewage},
		{"Transformer sparking, power outage since morning", enrichment.CategoryElectricity},
		{"Thick smoke from burning waste plant, pollution everywhere", enrichment.CategoryPollution},
		{"Theft reported, area feels unsafe at night", enrichment.CategorySafety},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got, err := c.Categorize(context.Background(), tt.description)
			if err != nil {
				t.Fatalf("Categorize: %v", err)
			}
			if got.Category != tt.want {
				t.Errorf("category = %s, want %s", got.Category, tt.want)
			}
		})
	}
}

func TestKeywordCategorizerContract(t *testing.T) {
	rules := mustRules(t)
	c := enrichment.NewKeywordCategorizer(rules)

	descriptions := []string{
		"",
		"   ",
		"Large pothole on Main St, urgent!",
		"something happened somewhere",
		"URGENT EMERGENCY danger hazard critical huge major severe deep burst flood fire collapsed accident injured",
		"पानी नहीं आ रहा",
		"!!!???",
	}

	for _, d := range descriptions {
		t.Run(d, func(t *testing.T) {
			got, err := c.Categorize(context.Background(), d)
			if err != nil {
				t.Fatalf("Categorize: %v", err)
			}
			if !slices.Contains(enrichment.Categories(), got.Category) {
				t.Errorf("category %q not in category set", got.Category)
			}
			if got.UrgencyScore < 0 || got.UrgencyScore > 100 {
				t.Errorf("urgency %d out of [0,100]", got.UrgencyScore)
			}
			if want := rules.Department(got.Category); got.Department != want {
				t.Errorf("department = %q, want lookup %q", got.Department, want)
			}
		})
	}
}

func TestKeywordCategorizerDeterministic(t *testing.T) {
	c := enrichment.NewKeywordCategorizer(mustRules(t))
	ctx := context.Background()

	for _, d := range []string{"something happened somewhere", "Large pothole on Main St, urgent!"} {
		first, _ := c.Categorize(ctx, d)
		for range 5 {
			again, _ := c.Categorize(ctx, d)
			if again != first {
				t.Fatalf("Categorize(%q) not deterministic: %+v vs %+v", d, first, again)
			}
		}
	}
}

func TestKeywordCategorizerUrgency(t *testing.T) {
	c := enrichment.NewKeywordCategorizer(mustRules(t))
	ctx := context.Background()

	calm, _ := c.Categorize(ctx, "pothole on the road")
	urgent, _ := c.Categorize(ctx, "pothole on the road, urgent")
	severe, _ := c.Categorize(ctx, "large deep pothole on the road, urgent")

	if calm.UrgencyScore != 60 {
		t.Errorf("single-category match urgency = %d, want 60", calm.UrgencyScore)
	}
	if urgent.UrgencyScore != 90 {
		t.Errorf("urgent urgency = %d, want 90", urgent.UrgencyScore)
	}
	if severe.UrgencyScore != 96 {
		t.Errorf("urgent severe urgency = %d, want 96", severe.UrgencyScore)
	}
}

func TestKeywordCategorizerCanceledContext(t *testing.T) {
	c := enrichment.NewKeywordCategorizer(mustRules(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Categorize(ctx, "pothole"); err == nil {
		t.Error("expected error for canceled context")
	}
}
