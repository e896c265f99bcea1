package timeline

import (
	"testing"
	"time"

	"github.com/kozaktomas/lifeline/internal/photo"
)

func TestFormatDayLabel(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected string
	}{
		{time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), "1st June, 2024"},
		{time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC), "2nd June, 2024"},
		{time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC), "3rd June, 2024"},
		{time.Date(2024, time.June, 4, 0, 0, 0, 0, time.UTC), "4th June, 2024"},
		{time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC), "5th June, 2024"},
		{time.Date(2024, time.June, 11, 0, 0, 0, 0, time.UTC), "11th June, 2024"},
		{time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC), "12th June, 2024"},
		{time.Date(2024, time.June, 13, 0, 0, 0, 0, time.UTC), "13th June, 2024"},
		{time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC), "21st June, 2024"},
		{time.Date(2024, time.June, 22, 0, 0, 0, 0, time.UTC), "22nd June, 2024"},
		{time.Date(2024, time.June, 23, 0, 0, 0, 0, time.UTC), "23rd June, 2024"},
		{time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC), "31st May, 2024"},
		{time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC), "1st January, 1970"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatDayLabel(tt.date); got != tt.expected {
				t.Errorf("FormatDayLabel(%v) = %q, want %q", tt.date, got, tt.expected)
			}
		})
	}
}

func ms(t time.Time) int64 {
	return t.UnixMilli()
}

func TestGroupByDate_TwoDays(t *testing.T) {
	loc := time.UTC
	photos := []photo.Photo{
		{ID: "c", Timestamp: ms(time.Date(2024, 6, 6, 9, 0, 0, 0, loc))},
		{ID: "b", Timestamp: ms(time.Date(2024, 6, 5, 18, 30, 0, 0, loc))},
		{ID: "d", Timestamp: ms(time.Date(2024, 6, 6, 8, 0, 0, 0, loc))},
		{ID: "a", Timestamp: ms(time.Date(2024, 6, 5, 7, 15, 0, 0, loc))},
	}

	groups := GroupByDate(photos, loc)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Label != "5th June, 2024" || groups[1].Label != "6th June, 2024" {
		t.Errorf("unexpected labels: %q, %q", groups[0].Label, groups[1].Label)
	}
	assertIDs(t, groups[0].Photos, "a", "b")
	assertIDs(t, groups[1].Photos, "d", "c")
}

func TestGroupByDate_UsesLocalMidnight(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// 23:30 UTC on the 5th is already the 6th in Prague (UTC+2 in summer).
	p := photo.Photo{ID: "late", Timestamp: ms(time.Date(2024, 6, 5, 23, 30, 0, 0, time.UTC))}

	utc := GroupByDate([]photo.Photo{p}, time.UTC)
	local := GroupByDate([]photo.Photo{p}, prague)

	if utc[0].Label != "5th June, 2024" {
		t.Errorf("expected UTC label for the 5th, got %q", utc[0].Label)
	}
	if local[0].Label != "6th June, 2024" {
		t.Errorf("expected Prague label for the 6th, got %q", local[0].Label)
	}
}

func TestGroupByDate_NonPositiveTimestampsAreEpoch(t *testing.T) {
	photos := []photo.Photo{
		{ID: "neg", Timestamp: -5000},
		{ID: "zero", Timestamp: 0},
	}

	groups := GroupByDate(photos, time.UTC)

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Label != "1st January, 1970" {
		t.Errorf("expected epoch label, got %q", groups[0].Label)
	}
	// Both clamp to 0, so input order is kept.
	assertIDs(t, groups[0].Photos, "neg", "zero")
}

func TestGroupByDate_Empty(t *testing.T) {
	groups := GroupByDate(nil, time.UTC)
	if groups == nil || len(groups) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", groups)
	}
}

func TestGroupByDate_DoesNotMutateInput(t *testing.T) {
	photos := []photo.Photo{
		{ID: "later", Timestamp: 2000},
		{ID: "earlier", Timestamp: 1000},
	}

	GroupByDate(photos, time.UTC)

	if photos[0].ID != "later" {
		t.Error("expected input slice to keep its order")
	}
}

func assertIDs(t *testing.T, photos []photo.Photo, ids ...string) {
	t.Helper()
	if len(photos) != len(ids) {
		t.Fatalf("expected %d photos, got %d", len(ids), len(photos))
	}
	for i, id := range ids {
		if photos[i].ID != id {
			t.Errorf("photo %d: expected %s, got %s", i, id, photos[i].ID)
		}
	}
}
