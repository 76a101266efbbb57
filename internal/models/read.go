package models

import "time"

// ActionItemRead is the API representation of an action item.
type ActionItemRead struct {
	ID              uint       `json:"id"`
	MeetingID       uint       `json:"meeting_id"`
	Description     string     `json:"description"`
	IsCompleted     bool       `json:"is_completed"`
	SuggestedAction ActionType `json:"suggested_action"`
}

// MeetingRead is the API representation of a meeting with its action items.
type MeetingRead struct {
	ID            uint             `json:"id"`
	UserID        uint             `json:"user_id"`
	GoogleEventID string           `json:"google_event_id"`
	Title         string           `json:"title"`
	StartTime     time.Time        `json:"start_time"`
	EndTime       time.Time        `json:"end_time"`
	Participants  []string         `json:"participants"`
	Type          MeetingType      `json:"type"`
	Summary       string           `json:"summary"`
	ActionItems   []ActionItemRead `json:"action_items"`
}

// ToRead converts an ActionItem for API output.
func (a ActionItem) ToRead() ActionItemRead {
	return ActionItemRead{
		ID:              a.ID,
		MeetingID:       a.MeetingID,
		Description:     a.Description,
		IsCompleted:     a.IsCompleted,
		SuggestedAction: a.SuggestedAction,
	}
}

// ToRead converts a Meeting and its loaded action items for API output.
func (m Meeting) ToRead() MeetingRead {
	items := make([]ActionItemRead, 0, len(m.ActionItems))
	for _, item := range m.ActionItems {
		items = append(items, item.ToRead())
	}
	return MeetingRead{
		ID:            m.ID,
		UserID:        m.UserID,
		GoogleEventID: m.GoogleEventID,
		Title:         m.Title,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
		Participants:  m.ParticipantList(),
		Type:          m.Type,
		Summary:       m.Summary,
		ActionItems:   items,
	}
}
