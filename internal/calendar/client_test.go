package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/actionhub/action-hub/internal/models"
)

const eventsFixture = `{
	"items": [
		{
			"id": "evt-1",
			"status": "confirmed",
			"summary": "Standup",
			"hangoutLink": "https://meet.google.com/abc",
			"start": {"dateTime": "2025-06-10T09:00:00Z"},
			"end": {"dateTime": "2025-06-10T09:30:00Z"},
			"attendees": [{"email": "a@example.com"}, {"email": "b@example.com"}]
		},
		{
			"id": "evt-2",
			"status": "cancelled",
			"summary": "Cancelled meeting",
			"start": {"dateTime": "2025-06-10T10:00:00Z"},
			"end": {"dateTime": "2025-06-10T11:00:00Z"}
		},
		{
			"id": "evt-3",
			"status": "confirmed",
			"summary": "Offsite",
			"location": "Main office",
			"start": {"date": "2025-06-10"},
			"end": {"date": "2025-06-11"}
		},
		{
			"id": "evt-4",
			"status": "confirmed",
			"summary": "Broken event"
		}
	]
}`

func TestFetchMeetings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calendars/primary/events" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer goog-token" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		q := r.URL.Query()
		if q.Get("singleEvents") != "true" || q.Get("orderBy") != "startTime" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Get("timeMin") == "" || q.Get("timeMax") == "" {
			t.Error("expected timeMin and timeMax")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(eventsFixture))
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, httpClient: &http.Client{Timeout: 5 * time.Second}}

	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 10, 23, 59, 59, 999999000, time.UTC)
	meetings, err := c.FetchMeetings(context.Background(), "goog-token", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// evt-2 is cancelled and evt-4 has no start time
	if len(meetings) != 2 {
		t.Fatalf("expected 2 meetings, got %d", len(meetings))
	}

	standup := meetings[0]
	if standup.GoogleEventID != "evt-1" {
		t.Errorf("expected evt-1 first, got %s", standup.GoogleEventID)
	}
	if standup.Type != models.MeetingOnline {
		t.Errorf("expected Online for hangout event, got %q", standup.Type)
	}
	if got := standup.ParticipantList(); len(got) != 2 || got[0] != "a@example.com" {
		t.Errorf("unexpected participants %v", got)
	}

	offsite := meetings[1]
	if offsite.Type != models.MeetingOffline {
		t.Errorf("expected Offline, got %q", offsite.Type)
	}
	if !offsite.StartTime.Equal(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected all-day start at midnight, got %v", offsite.StartTime)
	}
}

func TestFetchMeetingsDefaultTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"id":"evt-1","status":"confirmed","start":{"dateTime":"2025-06-10T09:00:00Z"},"end":{"dateTime":"2025-06-10T09:30:00Z"}}]}`))
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, httpClient: &http.Client{Timeout: 5 * time.Second}}

	meetings, err := c.FetchMeetings(context.Background(), "t", time.Now(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meetings) != 1 || meetings[0].Title != "No Title" {
		t.Errorf("expected default title, got %+v", meetings)
	}
}

func TestFetchMeetingsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, httpClient: &http.Client{Timeout: 5 * time.Second}}

	_, err := c.FetchMeetings(context.Background(), "bad", time.Now(), time.Now())
	if err == nil {
		t.Fatal("expected an error")
	}
}
