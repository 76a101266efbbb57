package calendar

import (
	"encoding/json"
	"testing"

	"github.com/actionhub/action-hub/internal/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		ev   event
		want models.MeetingType
	}{
		{
			"hangout link",
			event{HangoutLink: "https://meet.google.com/abc"},
			models.MeetingOnline,
		},
		{
			"conference data",
			event{ConferenceData: json.RawMessage(`{"conferenceId":"abc"}`)},
			models.MeetingOnline,
		},
		{
			"null conference data",
			event{ConferenceData: json.RawMessage(`null`)},
			models.MeetingOffline,
		},
		{
			"zoom in location",
			event{Location: "Zoom: https://zoom.us/j/123"},
			models.MeetingOnline,
		},
		{
			"teams in description",
			event{Description: "Join via Teams"},
			models.MeetingOnline,
		},
		{
			"keyword is case insensitive",
			event{Location: "WEBEX room"},
			models.MeetingOnline,
		},
		{
			"physical location",
			event{Location: "Conference Room B"},
			models.MeetingOffline,
		},
		{
			"no metadata",
			event{},
			models.MeetingOffline,
		},
	}

	for _, tc := range cases {
		if got := Classify(tc.ev); got != tc.want {
			t.Errorf("%s: Classify = %q, want %q", tc.name, got, tc.want)
		}
	}
}
