package complaints_test

import (
	"database/sql"
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/JaimeStill/civicdoc/internal/complaints"
	"github.com/JaimeStill/civicdoc/internal/enrichment"
	"github.com/JaimeStill/civicdoc/pkg/query"
)

// rowScanner assigns driver-style values to scan destinations in column order.
type rowScanner []any

func (r rowScanner) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(r))
	}
	for i, d := range dest {
		if sc, ok := d.(sql.Scanner); ok {
			if err := sc.Scan(r[i]); err != nil {
				return err
			}
			continue
		}

		dv := reflect.ValueOf(d).Elem()
		if r[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}

		sv := reflect.ValueOf(r[i])
		if !sv.Type().ConvertibleTo(dv.Type()) {
			return fmt.Errorf("column %d: cannot assign %T to %s", i, r[i], dv.Type())
		}
		dv.Set(sv.Convert(dv.Type()))
	}
	return nil
}

func sampleComplaint() complaints.Complaint {
	return complaints.Complaint{
		CitizenID:         "42",
		Description:       "Large pothole on Main St, urgent!",
		Language:          "en",
		Category:          enrichment.CategoryRoads,
		UrgencyScore:      ptr(93),
		Department:        "PWD",
		EstimatedCost:     5000,
		RequiredResources: []string{"Asphalt mix", "Road roller"},
		SuggestedActions:  []string{"Barricade the area", "Fill and compact"},
		ToolsRequired:     []string{"Shovel"},
		SafetyNotes:       []string{},
		SLAHours:          48,
		Status:            complaints.StatusPending,
		CreatedAt:         time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestRowRoundTrip(t *testing.T) {
	codecs := []complaints.ListCodec{complaints.JSONCodec{}, complaints.DelimitedCodec{}}

	for _, codec := range codecs {
		t.Run(fmt.Sprintf("%T", codec), func(t *testing.T) {
			c := sampleComplaint()

			args, err := complaints.RowArgs(c, codec)
			if err != nil {
				t.Fatalf("RowArgs: %v", err)
			}

			got, err := complaints.ScanRow(codec)(append(rowScanner{int64(7)}, args...))
			if err != nil {
				t.Fatalf("scan: %v", err)
			}

			c.ID = 7
			if !reflect.DeepEqual(got, c) {
				t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", got, c)
			}
		})
	}
}

func TestRowRoundTripNullUrgency(t *testing.T) {
	c := sampleComplaint()
	c.UrgencyScore = nil

	args, err := complaints.RowArgs(c, complaints.JSONCodec{})
	if err != nil {
		t.Fatalf("RowArgs: %v", err)
	}

	got, err := complaints.ScanRow(complaints.JSONCodec{})(append(rowScanner{int64(1)}, args...))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got.UrgencyScore != nil {
		t.Errorf("urgency = %v, want nil", *got.UrgencyScore)
	}
}

func TestScanNullListColumns(t *testing.T) {
	c := sampleComplaint()
	args, _ := complaints.RowArgs(c, complaints.JSONCodec{})
	for i := 7; i <= 10; i++ {
		args[i] = nil
	}

	got, err := complaints.ScanRow(complaints.JSONCodec{})(append(rowScanner{int64(1)}, args...))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got.RequiredResources == nil || len(got.RequiredResources) != 0 {
		t.Errorf("resources = %#v, want empty", got.RequiredResources)
	}
}

func TestRowArgsRejectsUnencodable(t *testing.T) {
	c := sampleComplaint()
	c.SafetyNotes = []string{"Wear gloves, boots"}

	if _, err := complaints.RowArgs(c, complaints.DelimitedCodec{}); err == nil {
		t.Error("expected delimited encoding error")
	}
}

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{
		"status":      {"pending,in_progress", "resolved"},
		"category":    {"roads"},
		"department":  {"PWD"},
		"language":    {"hi"},
		"citizen_id":  {"42"},
		"min_urgency": {"70"},
		"max_urgency": {"high"},
	}

	f := complaints.FiltersFromQuery(values)

	wantStatus := []complaints.Status{complaints.StatusPending, complaints.StatusInProgress, complaints.StatusResolved}
	if !slices.Equal(f.Status, wantStatus) {
		t.Errorf("status = %v, want %v", f.Status, wantStatus)
	}
	if f.Category == nil || *f.Category != "roads" {
		t.Errorf("category = %v", f.Category)
	}
	if f.Department == nil || *f.Department != "PWD" {
		t.Errorf("department = %v", f.Department)
	}
	if f.Language == nil || *f.Language != "hi" {
		t.Errorf("language = %v", f.Language)
	}
	if f.CitizenID == nil || *f.CitizenID != "42" {
		t.Errorf("citizen_id = %v", f.CitizenID)
	}
	if f.MinUrgency == nil || *f.MinUrgency != 70 {
		t.Errorf("min_urgency = %v", f.MinUrgency)
	}
	if f.MaxUrgency != nil {
		t.Errorf("max_urgency = %v, want nil for a non-numeric value", *f.MaxUrgency)
	}
}

func TestFiltersFromQueryEmpty(t *testing.T) {
	f := complaints.FiltersFromQuery(url.Values{})
	if f.Status != nil || f.Category != nil || f.Department != nil || f.Language != nil || f.CitizenID != nil {
		t.Errorf("expected zero filters, got %+v", f)
	}
}

func TestFiltersApply(t *testing.T) {
	p := query.NewProjectionMap("public", "complaints", "c").
		Project("status", "Status").
		Project("category", "Category").
		Project("department", "Department").
		Project("language", "Language").
		Project("citizen_id", "CitizenID").
		Project("urgency_score", "UrgencyScore")

	f := complaints.Filters{
		Status:     []complaints.Status{complaints.StatusPending, complaints.StatusResolved},
		Department: ptr("water"),
		MinUrgency: ptr(60),
		MaxUrgency: ptr(90),
	}

	q, args := f.Apply(query.NewBuilder(p)).Build()

	wantSQL := "SELECT c.status, c.category, c.department, c.language, c.citizen_id, c.urgency_score FROM public.complaints c " +
		"WHERE c.status IN ($1, $2) AND c.department ILIKE $3 AND c.urgency_score >= $4 AND c.urgency_score <= $5"
	if q != wantSQL {
		t.Errorf("sql =\n%s\nwant\n%s", q, wantSQL)
	}
	if !reflect.DeepEqual(args, []any{"pending", "resolved", "%water%", 60, 90}) {
		t.Errorf("args = %v", args)
	}
}
