// Package timeline turns photos and person clusters into display groups.
package timeline

import (
	"fmt"
	"slices"
	"time"

	"github.com/kozaktomas/lifeline/internal/photo"
)

// DateGroup is the set of photos taken on one local calendar day.
type DateGroup struct {
	Label  string        `json:"label"`
	Day    time.Time     `json:"day"`
	Photos []photo.Photo `json:"photos"`
}

// GroupByDate buckets photos by local midnight in loc. Groups are ascending by
// day and photos within a group ascending by timestamp; equal timestamps keep
// their input order. Non-positive timestamps fall on the epoch day.
func GroupByDate(photos []photo.Photo, loc *time.Location) []DateGroup {
	if loc == nil {
		loc = time.Local
	}

	sorted := slices.Clone(photos)
	slices.SortStableFunc(sorted, func(a, b photo.Photo) int {
		return compareTimestamps(clamp(a.Timestamp), clamp(b.Timestamp))
	})

	groups := []DateGroup{}
	for _, p := range sorted {
		day := photo.StartOfDay(p.Time(loc), loc)
		if n := len(groups); n > 0 && groups[n-1].Day.Equal(day) {
			groups[n-1].Photos = append(groups[n-1].Photos, p)
			continue
		}
		groups = append(groups, DateGroup{
			Label:  FormatDayLabel(day),
			Day:    day,
			Photos: []photo.Photo{p},
		})
	}
	return groups
}

// FormatDayLabel renders a day as "5th June, 2024".
func FormatDayLabel(t time.Time) string {
	return fmt.Sprintf("%d%s %s, %d", t.Day(), ordinalSuffix(t.Day()), t.Month(), t.Year())
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

func clamp(ts int64) int64 {
	if ts < 0 {
		return 0
	}
	return ts
}

func compareTimestamps(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
