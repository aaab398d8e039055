package complaints_test

import (
	"testing"

	"github.com/JaimeStill/civicdoc/internal/complaints"
)

func ptr[T any](v T) *T {
	return &v
}

func TestSortByUrgency(t *testing.T) {
	input := []complaints.Complaint{
		{ID: 1, UrgencyScore: ptr(40)},
		{ID: 2, UrgencyScore: nil},
		{ID: 3, UrgencyScore: ptr(90)},
		{ID: 4, UrgencyScore: ptr(40)},
		{ID: 5, UrgencyScore: ptr(0)},
	}

	got := complaints.SortByUrgency(input)

	want := []int64{3, 1, 4, 5, 2}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}

	if input[0].ID != 1 || input[2].ID != 3 {
		t.Error("input slice was reordered")
	}
}

func TestSortByUrgencyEmpty(t *testing.T) {
	if got := complaints.SortByUrgency(nil); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range complaints.Statuses() {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []complaints.Status{"", "closed", "PENDING"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func ids(items []complaints.Complaint) []int64 {
	out := make([]int64, len(items))
	for i, c := range items {
		out[i] = c.ID
	}
	return out
}
