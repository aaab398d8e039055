package complaints

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/JaimeStill/civicdoc/pkg/query"
	"github.com/JaimeStill/civicdoc/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "complaints", "c").
	Project("id", "ID").
	Project("citizen_id", "CitizenID").
	Project("description", "Description").
	Project("language", "Language").
	Project("category", "Category").
	Project("urgency_score", "UrgencyScore").
	Project("department", "Department").
	Project("estimated_cost", "EstimatedCost").
	Project("required_resources", "RequiredResources").
	Project("suggested_actions", "SuggestedActions").
	Project("tools_required", "ToolsRequired").
	Project("safety_notes", "SafetyNotes").
	Project("sla_hours", "SLAHours").
	Project("status", "Status").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

var insertOrder = query.SortField{Field: "ID"}

// Filters contains optional filtering criteria for complaint queries.
// Status matches any of the listed values. Department uses case-insensitive
// contains matching. MinUrgency and MaxUrgency bound the urgency score
// inclusively. The remaining fields use exact matching.
type Filters struct {
	Status     []Status `json:"status,omitempty"`
	Category   *string  `json:"category,omitempty"`
	Department *string  `json:"department,omitempty"`
	Language   *string  `json:"language,omitempty"`
	CitizenID  *string  `json:"citizen_id,omitempty"`
	MinUrgency *int     `json:"min_urgency,omitempty"`
	MaxUrgency *int     `json:"max_urgency,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	statuses := make([]any, len(f.Status))
	for i, s := range f.Status {
		statuses[i] = string(s)
	}

	return b.
		WhereIn("Status", statuses).
		WhereEquals("Category", f.Category).
		WhereContains("Department", f.Department).
		WhereEquals("Language", f.Language).
		WhereEquals("CitizenID", f.CitizenID).
		WhereAtLeast("UrgencyScore", f.MinUrgency).
		WhereAtMost("UrgencyScore", f.MaxUrgency)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Status accepts repeated parameters or a comma-separated list.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	for _, raw := range values["status"] {
		for s := range strings.SplitSeq(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				f.Status = append(f.Status, Status(s))
			}
		}
	}

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}

	if d := values.Get("department"); d != "" {
		f.Department = &d
	}

	if l := values.Get("language"); l != "" {
		f.Language = &l
	}

	if cid := values.Get("citizen_id"); cid != "" {
		f.CitizenID = &cid
	}

	if v, err := strconv.Atoi(values.Get("min_urgency")); err == nil {
		f.MinUrgency = &v
	}

	if v, err := strconv.Atoi(values.Get("max_urgency")); err == nil {
		f.MaxUrgency = &v
	}

	return f
}

func (f Filters) validate() error {
	for _, s := range f.Status {
		if !s.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, s)
		}
	}

	for _, u := range []*int{f.MinUrgency, f.MaxUrgency} {
		if u != nil && (*u < 0 || *u > 100) {
			return fmt.Errorf("%w: urgency bound %d outside 0..100", ErrInvalidInput, *u)
		}
	}
	if f.MinUrgency != nil && f.MaxUrgency != nil && *f.MinUrgency > *f.MaxUrgency {
		return fmt.Errorf("%w: min_urgency exceeds max_urgency", ErrInvalidInput)
	}
	return nil
}

// rowArgs encodes c into column order for every projected column after id.
func rowArgs(c Complaint, codec ListCodec) ([]any, error) {
	lists := [][]string{c.RequiredResources, c.SuggestedActions, c.ToolsRequired, c.SafetyNotes}
	encoded := make([]string, len(lists))
	for i, items := range lists {
		s, err := codec.Encode(items)
		if err != nil {
			return nil, err
		}
		encoded[i] = s
	}

	return []any{
		c.CitizenID,
		c.Description,
		c.Language,
		string(c.Category),
		c.UrgencyScore,
		c.Department,
		c.EstimatedCost,
		encoded[0],
		encoded[1],
		encoded[2],
		encoded[3],
		c.SLAHours,
		string(c.Status),
		c.CreatedAt,
	}, nil
}

// scanner returns a scan function that decodes list columns with codec.
// NULL list columns from legacy rows decode as empty lists.
func scanner(codec ListCodec) repository.ScanFunc[Complaint] {
	return func(s repository.Scanner) (Complaint, error) {
		var (
			c         Complaint
			resources sql.NullString
			actions   sql.NullString
			tools     sql.NullString
			safety    sql.NullString
		)

		err := s.Scan(
			&c.ID,
			&c.CitizenID,
			&c.Description,
			&c.Language,
			&c.Category,
			&c.UrgencyScore,
			&c.Department,
			&c.EstimatedCost,
			&resources,
			&actions,
			&tools,
			&safety,
			&c.SLAHours,
			&c.Status,
			&c.CreatedAt,
		)
		if err != nil {
			return c, err
		}

		targets := []*[]string{&c.RequiredResources, &c.SuggestedActions, &c.ToolsRequired, &c.SafetyNotes}
		for i, col := range []sql.NullString{resources, actions, tools, safety} {
			items, err := codec.Decode(col.String)
			if err != nil {
				return c, fmt.Errorf("complaint %d: %w", c.ID, err)
			}
			*targets[i] = items
		}

		return c, nil
	}
}
