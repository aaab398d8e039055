// Package enrichment derives language, category, urgency, department, cost,
// and remediation plan for a complaint description. Stages are table-driven
// and deterministic; the pipeline composes them and enforces each stage's
// output contract before anything is persisted.
package enrichment

import (
	"context"
	"slices"
)

// Category is the closed set of complaint categories.
type Category string

const (
	CategorySewage      Category = "sewage"
	CategoryGarbage     Category = "garbage"
	CategoryWater       Category = "water"
	CategoryRoads       Category = "roads"
	CategoryElectricity Category = "electricity"
	CategoryPollution   Category = "pollution"
	CategorySafety      Category = "safety"
)

// Categories returns the category set in table order.
func Categories() []Category {
	return []Category{
		CategorySewage,
		CategoryGarbage,
		CategoryWater,
		CategoryRoads,
		CategoryElectricity,
		CategoryPollution,
		CategorySafety,
	}
}

// Valid reports whether c is a member of the category set.
func (c Category) Valid() bool {
	return slices.Contains(Categories(), c)
}

// MaxUrgency is the upper bound of the urgency scale.
const MaxUrgency = 100

// Input is the citizen-provided part of a complaint. An empty Language is detected.
type Input struct {
	Description string
	Language    string
}

// Categorization is the Categorizer stage output.
type Categorization struct {
	Category     Category
	UrgencyScore int
	Department   string
}

// Estimate is the CostEstimator stage output.
type Estimate struct {
	Cost      float64
	Resources []string
}

// Plan is the ActionPlanner stage output.
type Plan struct {
	Actions     []string
	Tools       []string
	SafetyNotes []string
	SLAHours    int
}

// Result carries every derived field for one complaint.
type Result struct {
	Language          string
	Category          Category
	UrgencyScore      int
	Department        string
	EstimatedCost     float64
	RequiredResources []string
	SuggestedActions  []string
	ToolsRequired     []string
	SafetyNotes       []string
	SLAHours          int
}

// LanguageDetector maps free text to a supported language code.
type LanguageDetector interface {
	Detect(text string) string
}

// Categorizer assigns category, urgency, and department.
type Categorizer interface {
	Categorize(ctx context.Context, description string) (Categorization, error)
}

// CostEstimator prices the remediation for a category.
type CostEstimator interface {
	Estimate(ctx context.Context, category Category, description string) (Estimate, error)
}

// ActionPlanner produces field-officer guidance for a category and urgency.
type ActionPlanner interface {
	Plan(ctx context.Context, category Category, urgency int, description string) (Plan, error)
}
