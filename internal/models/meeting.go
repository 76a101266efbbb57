package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Meeting is a locally persisted copy of a calendar event. At most one row
// exists per (user, google_event_id) pair; sync reconciliation keeps the
// mutable fields aligned with the upstream calendar.
type Meeting struct {
	gorm.Model
	UserID        uint   `gorm:"not null;index;uniqueIndex:idx_meetings_user_event,where:deleted_at IS NULL"`
	User          User   `gorm:"constraint:OnDelete:CASCADE;"`
	GoogleEventID string `gorm:"not null;uniqueIndex:idx_meetings_user_event,where:deleted_at IS NULL"`
	Title         string `gorm:"not null"`
	StartTime     time.Time
	EndTime       time.Time
	// Participant emails in calendar order, stored as a JSON array
	Participants datatypes.JSON `gorm:"type:jsonb"`
	Type         MeetingType    `gorm:"not null;default:'Unrecorded'"`
	Summary      string         `gorm:"type:text"`

	ActionItems []ActionItem `gorm:"constraint:OnDelete:CASCADE;"`
}

// SetParticipants stores the given emails as the participants JSON array.
func (m *Meeting) SetParticipants(emails []string) error {
	if emails == nil {
		emails = []string{}
	}
	data, err := json.Marshal(emails)
	if err != nil {
		return err
	}
	m.Participants = datatypes.JSON(data)
	return nil
}

// ParticipantList decodes the participants JSON array. Returns an empty
// slice if the column is null or malformed.
func (m *Meeting) ParticipantList() []string {
	var emails []string
	if len(m.Participants) == 0 {
		return []string{}
	}
	if err := json.Unmarshal(m.Participants, &emails); err != nil {
		return []string{}
	}
	return emails
}
