package models

import "gorm.io/gorm"

// ActionItem is a task extracted from a meeting (or created manually).
// SuggestedAction is always one of the ActionType enum values.
type ActionItem struct {
	gorm.Model
	MeetingID       uint       `gorm:"not null;index"`
	Meeting         Meeting    `gorm:"constraint:OnDelete:CASCADE;"`
	Description     string     `gorm:"not null"`
	IsCompleted     bool       `gorm:"not null;default:false"`
	SuggestedAction ActionType `gorm:"not null;default:'Create Task'"`
}
