// Package booking decides whether a requested stay may be reserved.
//
// Everything here is pure: the caller injects the current time and the set of
// reservations already held on the spot, so the same inputs always produce
// the same verdict and the functions are safe for concurrent use.
package booking

import "time"

// Interval is a half-open range of whole days [Start, End); End is the
// checkout day. Check still treats a shared boundary day as a conflict, so
// back-to-back stays on the same spot are refused.
// Start and End are expected at UTC midnight; use NewInterval or Day to
// normalize arbitrary instants.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an Interval with both bounds truncated to whole days.
// It does not enforce Start < End; Check reports that as a structural rejection.
func NewInterval(start, end time.Time) Interval {
	return Interval{Start: Day(start), End: Day(end)}
}

// Day returns the calendar date of t as UTC midnight. The wall-clock date in
// t's own location is kept, so 2024-06-01T23:30-05:00 becomes 2024-06-01.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// strictlyInside reports whether t lies in the open range (iv.Start, iv.End).
func (iv Interval) strictlyInside(t time.Time) bool {
	return t.After(iv.Start) && t.Before(iv.End)
}

// touches reports whether t equals either bound of iv.
func (iv Interval) touches(t time.Time) bool {
	return t.Equal(iv.Start) || t.Equal(iv.End)
}
