// Package photo holds the library photo record and the date helpers shared by
// the scan, timeline and album code.
package photo

import "time"

// Photo is a single library image as reported by a photo source.
// Timestamp is the capture time in epoch milliseconds. Revision changes when the
// content behind the locator changes; sources whose locator already pins the
// content leave it empty.
type Photo struct {
	ID        string `json:"id"`
	Locator   string `json:"locator"`
	Timestamp int64  `json:"timestamp"`
	Revision  string `json:"-"`
}

// Fingerprint identifies the exact image content a cached result was computed from.
func (p Photo) Fingerprint() string {
	if p.Revision == "" {
		return p.Locator
	}
	return p.Locator + "#" + p.Revision
}

// Time returns the capture time in the given location.
// Non-positive timestamps are treated as the epoch.
func (p Photo) Time(loc *time.Location) time.Time {
	ts := p.Timestamp
	if ts < 0 {
		ts = 0
	}
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ts).In(loc)
}

// ResolveTimestamp applies the capture time fallback policy. takenMillis is the
// capture time in milliseconds; modifiedSeconds and addedSeconds are file
// timestamps in seconds and are scaled to milliseconds when used.
func ResolveTimestamp(takenMillis, modifiedSeconds, addedSeconds int64) int64 {
	if takenMillis > 0 {
		return takenMillis
	}
	if ts := modifiedSeconds * 1000; ts > 0 {
		return ts
	}
	return addedSeconds * 1000
}

// DateRange is an inclusive [Start, End] window in epoch milliseconds.
// A zero bound is open.
type DateRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// IsZero reports whether the range places no restriction on timestamps.
func (r DateRange) IsZero() bool {
	return r.Start == 0 && r.End == 0
}

// Contains reports whether the timestamp falls inside the range.
func (r DateRange) Contains(ts int64) bool {
	if r.Start != 0 && ts < r.Start {
		return false
	}
	if r.End != 0 && ts > r.End {
		return false
	}
	return true
}

// NewDateRange builds a range covering whole days from the start of from to the
// end of to, both interpreted in loc. Zero times leave that side open.
func NewDateRange(from, to time.Time, loc *time.Location) DateRange {
	if loc == nil {
		loc = time.Local
	}
	var r DateRange
	if !from.IsZero() {
		r.Start = StartOfDay(from, loc).UnixMilli()
	}
	if !to.IsZero() {
		r.End = StartOfDay(to, loc).AddDate(0, 0, 1).UnixMilli() - 1
	}
	return r
}

// StartOfDay truncates t to local midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ParseDay parses a YYYY-MM-DD string in loc. An empty string yields the zero time.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
