package circulars

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/JaimeStill/civicdoc/pkg/query"
	"github.com/JaimeStill/civicdoc/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "circulars", "ci").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("storage_key", "StorageKey").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("content_summary", "Summary").
	Project("language", "Language").
	Project("extracted_rules", "Rules").
	Project("eligibility_criteria", "Eligibility").
	Project("deadlines", "Deadlines").
	Project("uploaded_at", "UploadedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for circular queries.
// Filename uses case-insensitive contains matching; Language is exact.
type Filters struct {
	Filename *string `json:"filename,omitempty"`
	Language *string `json:"language,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Filename", f.Filename).
		WhereEquals("Language", f.Language)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if l := values.Get("language"); l != "" {
		f.Language = &l
	}

	return f
}

func scanCircular(s repository.Scanner) (Circular, error) {
	var (
		c         Circular
		summary   sql.NullString
		language  sql.NullString
		rules     sql.NullString
		eligible  sql.NullString
		deadlines sql.NullString
	)

	err := s.Scan(
		&c.ID,
		&c.Filename,
		&c.StorageKey,
		&c.SizeBytes,
		&c.PageCount,
		&summary,
		&language,
		&rules,
		&eligible,
		&deadlines,
		&c.UploadedAt,
	)
	if err != nil {
		return c, err
	}

	c.Summary = summary.String
	c.Language = language.String
	c.Eligibility = eligible.String

	c.Rules = []Rule{}
	if rules.String != "" {
		if err := json.Unmarshal([]byte(rules.String), &c.Rules); err != nil {
			return c, fmt.Errorf("circular %d rules: %w", c.ID, err)
		}
	}

	c.Deadlines = []string{}
	if deadlines.String != "" {
		if err := json.Unmarshal([]byte(deadlines.String), &c.Deadlines); err != nil {
			c.Deadlines = []string{deadlines.String}
		}
	}

	return c, nil
}
