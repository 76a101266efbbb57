package syncer

import "time"

// Window is the reconciliation window: the time range used both for the
// upstream calendar fetch and for selecting local meetings eligible for
// orphan deletion. Both sides always receive the same Window value, computed
// once per sync, so the fetch range and the deletion scan cannot drift apart.
type Window struct {
	Start time.Time
	End   time.Time
}

// TodayWindow returns the UTC calendar-day window containing now:
// midnight through 23:59:59.999999.
func TodayWindow(now time.Time) Window {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999000, time.UTC)
	return Window{Start: start, End: end}
}

// Contains reports whether t falls inside the window (inclusive).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
