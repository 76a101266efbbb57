package database

import (
	"log"
	"time"

	"github.com/actionhub/action-hub/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedDevData populates the database with development test data.
// Idempotent: skips if data already exists.
func SeedDevData(db *gorm.DB) error {
	// Check if seed data already exists
	var existingUser models.User
	result := db.Where("email = ?", "dev@actionhub.local").First(&existingUser)
	if result.Error == nil {
		log.Println("Seed data already exists, skipping")
		return nil
	}

	// Create test user
	user := models.User{
		Email:                   "dev@actionhub.local",
		Name:                    "Dev User",
		NotificationPreferences: datatypes.JSON([]byte(models.DefaultNotificationPreferences)),
		IntegrationsConfig:      datatypes.JSON([]byte(`{}`)),
	}

	if err := db.Create(&user).Error; err != nil {
		return err
	}

	// Create a sample synced meeting for today
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 10, 0, 0, 0, time.UTC)
	meeting := models.Meeting{
		UserID:        user.ID,
		GoogleEventID: "dev-event-daily-sync",
		Title:         "Daily Sync",
		StartTime:     start,
		EndTime:       start.Add(30 * time.Minute),
		Type:          models.MeetingOnline,
		Summary:       "Team standup over video call.",
	}
	if err := meeting.SetParticipants([]string{"alice@example.com", "bob@example.com"}); err != nil {
		return err
	}

	if err := db.Create(&meeting).Error; err != nil {
		return err
	}

	// Create sample action items, one completed and one pending
	items := []models.ActionItem{
		{
			MeetingID:       meeting.ID,
			Description:     "[Alice] Deploy the latest build to staging by Friday",
			SuggestedAction: models.ActionCreateTask,
			IsCompleted:     false,
		},
		{
			MeetingID:       meeting.ID,
			Description:     "Send the pricing deck to the client",
			SuggestedAction: models.ActionSendEmail,
			IsCompleted:     true,
		},
	}

	if err := db.Create(&items).Error; err != nil {
		return err
	}

	log.Println("Seeded dev data: 1 user, 1 meeting, 2 action items")
	return nil
}
