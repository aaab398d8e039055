package enrichment

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// Rules holds the lookup tables shared by the categorizer, estimator, and planner.
type Rules struct {
	DefaultDepartment string         `yaml:"default_department"`
	UrgencyKeywords   []string       `yaml:"urgency_keywords"`
	SeverityKeywords  []string       `yaml:"severity_keywords"`
	DefaultCost       CostRule       `yaml:"default_cost"`
	DefaultPlan       PlanRule       `yaml:"default_plan"`
	Categories        []CategoryRule `yaml:"categories"`
}

// CategoryRule configures one category. Nil Cost or Plan falls back to the defaults.
type CategoryRule struct {
	Name       Category  `yaml:"name"`
	Department string    `yaml:"department"`
	Keywords   []string  `yaml:"keywords"`
	Cost       *CostRule `yaml:"cost"`
	Plan       *PlanRule `yaml:"plan"`
}

// CostRule is a fixed estimate with its resource list.
type CostRule struct {
	Amount    float64  `yaml:"amount"`
	Resources []string `yaml:"resources"`
}

// PlanRule is a remediation plan with urgency-banded SLAs.
// Bands are ordered by descending threshold; the first band whose
// threshold the urgency exceeds wins, otherwise SLAHours applies.
type PlanRule struct {
	Actions     []string  `yaml:"actions"`
	Tools       []string  `yaml:"tools"`
	SafetyNotes []string  `yaml:"safety_notes"`
	SLAHours    int       `yaml:"sla_hours"`
	SLABands    []SLABand `yaml:"sla_bands"`
}

// SLABand applies Hours when urgency is strictly greater than Above.
type SLABand struct {
	Above int `yaml:"above"`
	Hours int `yaml:"hours"`
}

// SLA returns the SLA in hours for the given urgency.
func (p PlanRule) SLA(urgency int) int {
	for _, b := range p.SLABands {
		if urgency > b.Above {
			return b.Hours
		}
	}
	return p.SLAHours
}

// DefaultRules returns the embedded rule tables.
func DefaultRules() (*Rules, error) {
	return ParseRules(defaultRules)
}

// LoadRules reads rule tables from path, or the embedded defaults when path is empty.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes and validates YAML rule tables.
func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	return &r, nil
}

// Department returns the department for category, or DefaultDepartment.
func (r *Rules) Department(category Category) string {
	if c := r.lookup(category); c != nil && c.Department != "" {
		return c.Department
	}
	return r.DefaultDepartment
}

// CostFor returns the cost rule for category, or DefaultCost.
func (r *Rules) CostFor(category Category) CostRule {
	if c := r.lookup(category); c != nil && c.Cost != nil {
		return *c.Cost
	}
	return r.DefaultCost
}

// PlanFor returns the plan rule for category, or DefaultPlan.
func (r *Rules) PlanFor(category Category) PlanRule {
	if c := r.lookup(category); c != nil && c.Plan != nil {
		return *c.Plan
	}
	return r.DefaultPlan
}

func (r *Rules) lookup(category Category) *CategoryRule {
	for i := range r.Categories {
		if r.Categories[i].Name == category {
			return &r.Categories[i]
		}
	}
	return nil
}

func (r *Rules) validate() error {
	if r.DefaultDepartment == "" {
		return fmt.Errorf("default_department required")
	}
	if len(r.Categories) == 0 {
		return fmt.Errorf("at least one category required")
	}
	if err := r.DefaultCost.validate(); err != nil {
		return fmt.Errorf("default_cost: %w", err)
	}
	if err := r.DefaultPlan.validate(); err != nil {
		return fmt.Errorf("default_plan: %w", err)
	}

	seen := make(map[Category]bool, len(r.Categories))
	for _, c := range r.Categories {
		if !c.Name.Valid() {
			return fmt.Errorf("unknown category %q", c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate category %q", c.Name)
		}
		seen[c.Name] = true

		if c.Cost != nil {
			if err := c.Cost.validate(); err != nil {
				return fmt.Errorf("%s cost: %w", c.Name, err)
			}
		}
		if c.Plan != nil {
			if err := c.Plan.validate(); err != nil {
				return fmt.Errorf("%s plan: %w", c.Name, err)
			}
		}
	}
	return nil
}

func (c CostRule) validate() error {
	if c.Amount < 0 || math.IsNaN(c.Amount) || math.IsInf(c.Amount, 0) {
		return fmt.Errorf("amount must be a non-negative number")
	}
	if len(c.Resources) == 0 {
		return fmt.Errorf("resources required")
	}
	return nil
}

func (p PlanRule) validate() error {
	if len(p.Actions) == 0 || len(p.Tools) == 0 || len(p.SafetyNotes) == 0 {
		return fmt.Errorf("actions, tools, and safety_notes required")
	}
	if p.SLAHours <= 0 {
		return fmt.Errorf("sla_hours must be positive")
	}

	// Higher urgency must never map to a longer SLA.
	sorted := slices.IsSortedFunc(p.SLABands, func(a, b SLABand) int {
		return b.Above - a.Above
	})
	if !sorted {
		return fmt.Errorf("sla_bands must be ordered by descending threshold")
	}
	prevAbove, prevHours := MaxUrgency+1, 0
	for _, b := range p.SLABands {
		if b.Above < 0 || b.Above >= MaxUrgency {
			return fmt.Errorf("sla band threshold %d out of range", b.Above)
		}
		if b.Above == prevAbove {
			return fmt.Errorf("duplicate sla band threshold %d", b.Above)
		}
		if b.Hours <= prevHours {
			return fmt.Errorf("sla band hours must increase as threshold decreases")
		}
		prevAbove, prevHours = b.Above, b.Hours
	}
	if len(p.SLABands) > 0 && prevHours >= p.SLAHours {
		return fmt.Errorf("sla band hours must be shorter than sla_hours")
	}
	return nil
}
