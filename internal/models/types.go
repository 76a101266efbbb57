package models

import "fmt"

// MeetingType classifies how a meeting takes place.
type MeetingType string

const (
	MeetingOnline     MeetingType = "Online"
	MeetingOffline    MeetingType = "Offline"
	MeetingUnrecorded MeetingType = "Unrecorded"
)

// ActionType is the closed set of action item categories. Every stored
// action item carries exactly one of these values; labels coming from the
// AI extractor are coerced before they ever reach the database.
type ActionType string

const (
	ActionSendEmail            ActionType = "Send Email"
	ActionCreateCalendarInvite ActionType = "Create Calendar Invite"
	ActionCreateTask           ActionType = "Create Task"
	ActionAddToObsidian        ActionType = "Add to Obsidian"
)

// ParseActionType matches a string against the closed category set.
func ParseActionType(s string) (ActionType, error) {
	switch ActionType(s) {
	case ActionSendEmail, ActionCreateCalendarInvite, ActionCreateTask, ActionAddToObsidian:
		return ActionType(s), nil
	}
	return "", fmt.Errorf("unknown action type: %q", s)
}

// Valid reports whether t is one of the enumerated categories.
func (t ActionType) Valid() bool {
	_, err := ParseActionType(string(t))
	return err == nil
}
