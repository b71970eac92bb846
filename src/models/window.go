package models

import "time"

// MWindow is the inclusive calendar range a feed is asked for.
// A zero bound leaves that side open.
type MWindow struct {
	Start time.Time
	End   time.Time
}

// NewLookbackWindow covers the last years*365 days up to now.
func NewLookbackWindow(now time.Time, years int) MWindow {
	return MWindow{
		Start: now.AddDate(0, 0, -years*365),
		End:   now,
	}
}

// Contains reports whether the calendar day of t lies within the window.
func (w MWindow) Contains(t time.Time) bool {
	return w.ContainsDay(t.Format(DateLayout))
}

// ContainsDay is Contains for a YYYY-MM-DD string.
func (w MWindow) ContainsDay(day string) bool {
	if !w.Start.IsZero() && day < w.Start.Format(DateLayout) {
		return false
	}
	if !w.End.IsZero() && day > w.End.Format(DateLayout) {
		return false
	}
	return true
}
