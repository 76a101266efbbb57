package syncer

import (
	"testing"
	"time"

	"github.com/actionhub/action-hub/internal/models"
	"gorm.io/gorm"
)

func dayWindow() Window {
	return TodayWindow(time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC))
}

func localMeeting(id uint, eventID, title string, start time.Time) models.Meeting {
	return models.Meeting{
		Model:         gorm.Model{ID: id},
		GoogleEventID: eventID,
		Title:         title,
		StartTime:     start,
		EndTime:       start.Add(30 * time.Minute),
	}
}

func fetchedMeeting(eventID, title string, start time.Time) models.Meeting {
	return models.Meeting{
		GoogleEventID: eventID,
		Title:         title,
		StartTime:     start,
		EndTime:       start.Add(30 * time.Minute),
	}
}

func TestTodayWindowBounds(t *testing.T) {
	w := TodayWindow(time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC))

	wantStart := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 6, 10, 23, 59, 59, 999999000, time.UTC)

	if !w.Start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, w.Start)
	}
	if !w.End.Equal(wantEnd) {
		t.Errorf("expected end %v, got %v", wantEnd, w.End)
	}
}

func TestTodayWindowNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 02:00 on June 11 in UTC+5 is still June 10 in UTC
	w := TodayWindow(time.Date(2025, 6, 11, 2, 0, 0, 0, loc))

	if w.Start.Day() != 10 {
		t.Errorf("expected UTC day 10, got %d", w.Start.Day())
	}
}

func TestWindowContains(t *testing.T) {
	w := dayWindow()

	cases := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"start boundary", w.Start, true},
		{"end boundary", w.End, true},
		{"middle", time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC), true},
		{"day before", time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC), false},
		{"day after", time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		if got := w.Contains(tc.t); got != tc.want {
			t.Errorf("%s: Contains(%v) = %v, want %v", tc.name, tc.t, got, tc.want)
		}
	}
}

func TestBuildPlanCreatesUnknownEvents(t *testing.T) {
	w := dayWindow()
	fetched := []models.Meeting{
		fetchedMeeting("evt-1", "Standup", time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)),
	}

	plan := BuildPlan(nil, fetched, w)

	if len(plan.Creates) != 1 || len(plan.Updates) != 0 || len(plan.Deletes) != 0 {
		t.Fatalf("expected 1 create only, got plan %+v", plan)
	}
	if plan.Creates[0].GoogleEventID != "evt-1" {
		t.Errorf("expected create for evt-1, got %s", plan.Creates[0].GoogleEventID)
	}
}

func TestBuildPlanUpdatesMatchedEvents(t *testing.T) {
	w := dayWindow()
	existing := []models.Meeting{
		localMeeting(7, "evt-1", "Standup", time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)),
	}
	existing[0].Summary = "stored summary"

	fetched := []models.Meeting{
		fetchedMeeting("evt-1", "Standup (moved)", time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)),
	}

	plan := BuildPlan(existing, fetched, w)

	if len(plan.Creates) != 0 || len(plan.Updates) != 1 || len(plan.Deletes) != 0 {
		t.Fatalf("expected 1 update only, got plan %+v", plan)
	}

	u := plan.Updates[0]
	if u.ID != 7 {
		t.Errorf("expected local id 7 preserved, got %d", u.ID)
	}
	if u.Title != "Standup (moved)" {
		t.Errorf("expected refreshed title, got %q", u.Title)
	}
	if !u.StartTime.Equal(time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("expected refreshed start time, got %v", u.StartTime)
	}
	if u.Summary != "stored summary" {
		t.Errorf("expected stored summary preserved over empty fetch, got %q", u.Summary)
	}
}

func TestBuildPlanFetchedSummaryWins(t *testing.T) {
	w := dayWindow()
	existing := []models.Meeting{
		localMeeting(1, "evt-1", "Standup", time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)),
	}
	existing[0].Summary = "old"

	fetched := []models.Meeting{
		fetchedMeeting("evt-1", "Standup", time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)),
	}
	fetched[0].Summary = "new description"

	plan := BuildPlan(existing, fetched, w)
	if plan.Updates[0].Summary != "new description" {
		t.Errorf("expected non-empty fetched summary to win, got %q", plan.Updates[0].Summary)
	}
}

func TestBuildPlanDeletesOrphansInsideWindow(t *testing.T) {
	w := dayWindow()
	existing := []models.Meeting{
		localMeeting(1, "evt-1", "Kept", time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)),
		localMeeting(2, "evt-2", "Removed upstream", time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC)),
	}
	fetched := []models.Meeting{
		fetchedMeeting("evt-1", "Kept", time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)),
	}

	plan := BuildPlan(existing, fetched, w)

	if len(plan.Deletes) != 1 || plan.Deletes[0] != 2 {
		t.Fatalf("expected delete of id 2, got %v", plan.Deletes)
	}
}

func TestBuildPlanNeverDeletesOutsideWindow(t *testing.T) {
	w := dayWindow()
	existing := []models.Meeting{
		localMeeting(3, "evt-old", "Yesterday", time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)),
	}

	plan := BuildPlan(existing, nil, w)

	if len(plan.Deletes) != 0 {
		t.Errorf("expected no deletes for out-of-window meeting, got %v", plan.Deletes)
	}
}

func TestBuildPlanIdempotentSecondPass(t *testing.T) {
	w := dayWindow()
	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	fetched := []models.Meeting{fetchedMeeting("evt-1", "Standup", start)}

	first := BuildPlan(nil, fetched, w)
	if len(first.Creates) != 1 {
		t.Fatalf("expected 1 create on first pass, got %d", len(first.Creates))
	}

	// Simulate the first pass having been applied
	persisted := first.Creates[0]
	persisted.ID = 42

	second := BuildPlan([]models.Meeting{persisted}, fetched, w)
	if len(second.Creates) != 0 || len(second.Deletes) != 0 {
		t.Errorf("expected second pass to only refresh, got %+v", second)
	}
	if len(second.Updates) != 1 || second.Updates[0].ID != 42 {
		t.Errorf("expected in-place update of id 42, got %+v", second.Updates)
	}
}
