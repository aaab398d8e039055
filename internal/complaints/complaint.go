// Package complaints implements complaint intake, enrichment, persistence,
// and status management.
package complaints

import (
	"cmp"
	"slices"
	"time"

	"github.com/JaimeStill/civicdoc/internal/enrichment"
)

// Status is the closed set of complaint workflow states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

// Statuses returns every defined status.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusResolved, StatusRejected}
}

// Valid reports whether s is a defined status.
func (s Status) Valid() bool {
	return slices.Contains(Statuses(), s)
}

// Complaint is an enriched, persisted citizen complaint.
// UrgencyScore is nil only for rows written before scoring existed.
type Complaint struct {
	ID                int64               `json:"id"`
	CitizenID         string              `json:"citizen_id"`
	Description       string              `json:"description"`
	Language          string              `json:"language"`
	Category          enrichment.Category `json:"category"`
	UrgencyScore      *int                `json:"urgency_score"`
	Department        string              `json:"department"`
	EstimatedCost     float64             `json:"estimated_cost"`
	RequiredResources []string            `json:"required_resources"`
	SuggestedActions  []string            `json:"suggested_actions"`
	ToolsRequired     []string            `json:"tools_required"`
	SafetyNotes       []string            `json:"safety_notes"`
	SLAHours          int                 `json:"sla_hours"`
	Status            Status              `json:"status"`
	CreatedAt         time.Time           `json:"created_at"`
}

// CreateCommand is the citizen-supplied input for a new complaint.
// Derived fields are always computed by the enrichment pipeline.
type CreateCommand struct {
	CitizenID   string  `json:"citizen_id"`
	Description string  `json:"description"`
	Language    *string `json:"language,omitempty"`
}

// StatusCommand carries a status transition.
type StatusCommand struct {
	Status Status `json:"status"`
}

// SortByUrgency returns a copy of items ordered by urgency descending.
// Missing urgency sorts as -1, after every scored complaint; ties keep input order.
func SortByUrgency(items []Complaint) []Complaint {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Complaint) int {
		return cmp.Compare(urgencyKey(b), urgencyKey(a))
	})
	return sorted
}

func urgencyKey(c Complaint) int {
	if c.UrgencyScore == nil {
		return -1
	}
	return *c.UrgencyScore
}
