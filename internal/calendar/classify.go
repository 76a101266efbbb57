package calendar

import (
	"regexp"

	"github.com/actionhub/action-hub/internal/models"
)

var conferenceKeywords = regexp.MustCompile(`(?i)(zoom|teams|meet|webex)`)

// Classify decides whether an event is an online or offline meeting.
// Online when conferencing metadata is attached, or when the location or
// description mentions a known video-conference product.
func Classify(ev event) models.MeetingType {
	if ev.HangoutLink != "" || (len(ev.ConferenceData) > 0 && string(ev.ConferenceData) != "null") {
		return models.MeetingOnline
	}
	if conferenceKeywords.MatchString(ev.Location) || conferenceKeywords.MatchString(ev.Description) {
		return models.MeetingOnline
	}
	return models.MeetingOffline
}
