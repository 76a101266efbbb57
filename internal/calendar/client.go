// Package calendar wraps the Google Calendar REST API for the sync flow.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/actionhub/action-hub/internal/models"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Client fetches events from the primary Google Calendar.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a calendar client against the real Google endpoint.
func NewClient() *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

type attendee struct {
	Email string `json:"email"`
}

type event struct {
	ID             string          `json:"id"`
	Status         string          `json:"status"`
	Summary        string          `json:"summary"`
	Description    string          `json:"description"`
	Location       string          `json:"location"`
	HangoutLink    string          `json:"hangoutLink"`
	ConferenceData json.RawMessage `json:"conferenceData"`
	Start          *eventTime      `json:"start"`
	End            *eventTime      `json:"end"`
	Attendees      []attendee      `json:"attendees"`
}

type eventsResponse struct {
	Items []event `json:"items"`
}

// FetchMeetings returns the user's primary-calendar events between start and
// end as unsaved Meeting records. Cancelled events and events without a
// start time are skipped; the caller assigns UserID before persisting.
func (c *Client) FetchMeetings(ctx context.Context, accessToken string, start, end time.Time) ([]models.Meeting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/calendars/primary/events", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("timeMin", start.UTC().Format(time.RFC3339))
	q.Set("timeMax", end.UTC().Format(time.RFC3339))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("calendar API returned status %d: %s", resp.StatusCode, string(body))
	}

	var events eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	meetings := make([]models.Meeting, 0, len(events.Items))
	for _, ev := range events.Items {
		meeting, ok, err := meetingFromEvent(ev)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		meetings = append(meetings, meeting)
	}

	return meetings, nil
}

// meetingFromEvent maps one calendar event to a Meeting. ok is false when
// the event should be skipped (cancelled or missing a start time).
func meetingFromEvent(ev event) (models.Meeting, bool, error) {
	if ev.Status == "cancelled" || ev.Start == nil || ev.End == nil {
		return models.Meeting{}, false, nil
	}

	startTime, err := parseEventTime(ev.Start)
	if err != nil {
		return models.Meeting{}, false, fmt.Errorf("event %s: %w", ev.ID, err)
	}
	endTime, err := parseEventTime(ev.End)
	if err != nil {
		return models.Meeting{}, false, fmt.Errorf("event %s: %w", ev.ID, err)
	}

	title := ev.Summary
	if title == "" {
		title = "No Title"
	}

	participants := make([]string, 0, len(ev.Attendees))
	for _, a := range ev.Attendees {
		if a.Email != "" {
			participants = append(participants, a.Email)
		}
	}

	meeting := models.Meeting{
		GoogleEventID: ev.ID,
		Title:         title,
		StartTime:     startTime,
		EndTime:       endTime,
		Type:          Classify(ev),
		// Initial summary is the event description
		Summary: ev.Description,
	}
	if err := meeting.SetParticipants(participants); err != nil {
		return models.Meeting{}, false, err
	}

	return meeting, true, nil
}

func parseEventTime(t *eventTime) (time.Time, error) {
	if t.DateTime != "" {
		return time.Parse(time.RFC3339, t.DateTime)
	}
	if t.Date != "" {
		return time.Parse("2006-01-02", t.Date)
	}
	return time.Time{}, fmt.Errorf("event time has neither dateTime nor date")
}
