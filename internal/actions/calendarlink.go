package actions

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

const calendarRenderURL = "https://calendar.google.com/calendar/render"

// CalendarLinkExecutor generates a Google Calendar event-template deep link.
// It performs no API call, so it never needs a credential.
type CalendarLinkExecutor struct {
	now func() time.Time
}

// NewCalendarLinkExecutor creates the calendar deep-link executor.
func NewCalendarLinkExecutor() *CalendarLinkExecutor {
	return &CalendarLinkExecutor{now: time.Now}
}

// Execute builds the render URL with a title, contextual details and a
// heuristic date range parsed from the item description.
func (e *CalendarLinkExecutor) Execute(ctx context.Context, payload Payload, token string) (*Result, error) {
	title := payload.Field("summary", payload.Description)
	if title == "" {
		title = "New Meeting"
	}

	details := fmt.Sprintf("Task: %s", payload.Description)
	if !payload.MeetingStart.IsZero() {
		details = fmt.Sprintf("Context from meeting on %s\n\n%s",
			payload.MeetingStart.UTC().Format(time.RFC3339), details)
	}

	dates := payload.Field("dates", ParseMeetingDates(payload.Description, e.now()))

	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", title)
	params.Set("details", details)
	params.Set("dates", dates)

	link := calendarRenderURL + "?" + params.Encode()

	return &Result{
		Status:  "success",
		Message: "Calendar link generated",
		Link:    link,
		Details: map[string]string{"calendarUrl": link},
	}, nil
}
