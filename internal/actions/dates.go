package actions

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timeOfDayPattern = regexp.MustCompile(`at (\d+)(?::(\d+))?\s*(am|pm)?`)

const googleDatesFormat = "20060102T150405Z"

// ParseMeetingDates extracts a heuristic event time range from free text and
// formats it for Google Calendar's dates parameter
// (YYYYMMDDTHHMMSSZ/YYYYMMDDTHHMMSSZ). Recognizes "tomorrow", "next week",
// "next friday" and "at H[:MM][am|pm]"; defaults to tomorrow 10:00 UTC.
// Events are one hour long.
func ParseMeetingDates(text string, now time.Time) string {
	text = strings.ToLower(text)
	now = now.UTC()

	var start time.Time
	switch {
	case strings.Contains(text, "tomorrow"):
		start = atHour(now.AddDate(0, 0, 1), 10, 0)
	case strings.Contains(text, "next week"):
		start = atHour(now.AddDate(0, 0, 7), 10, 0)
	case strings.Contains(text, "next friday"):
		daysAhead := int(time.Friday - now.Weekday())
		if daysAhead <= 0 {
			daysAhead += 7
		}
		start = atHour(now.AddDate(0, 0, daysAhead), 10, 0)
	}

	if m := timeOfDayPattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		switch m[3] {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}

		if start.IsZero() {
			start = atHour(now.AddDate(0, 0, 1), hour, minute)
		} else {
			start = atHour(start, hour, minute)
		}
	}

	if start.IsZero() {
		// No date keyword found
		start = atHour(now.AddDate(0, 0, 1), 10, 0)
	}

	end := start.Add(time.Hour)
	return start.Format(googleDatesFormat) + "/" + end.Format(googleDatesFormat)
}

func atHour(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}
