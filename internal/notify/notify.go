// Package notify delivers daily brief and reminder notifications. Delivery
// is a structured-log transport for now; the service boundary is where a
// real mail sender would plug in.
package notify

import (
	"log/slog"
	"time"

	"github.com/actionhub/action-hub/internal/models"
)

// Service sends user-facing notifications.
type Service struct {
	logger *slog.Logger
}

// NewService creates a notification service.
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// SendDailyBrief delivers the morning digest of today's meetings.
func (s *Service) SendDailyBrief(user *models.User, meetings []models.Meeting) {
	name := user.Name
	if name == "" {
		name = "there"
	}

	s.logger.Info(
		"Sending daily brief",
		"email", user.Email,
		"name", name,
		"subject", "Your Daily Brief for "+time.Now().UTC().Format("2006-01-02"),
		"meeting_count", len(meetings),
	)
	for _, m := range meetings {
		s.logger.Info("Daily brief meeting",
			"email", user.Email,
			"start", m.StartTime.Format(time.RFC3339),
			"title", m.Title,
		)
	}
}

// SendUnresolvedReminders nudges the user about incomplete action items.
func (s *Service) SendUnresolvedReminders(user *models.User, items []models.ActionItem) {
	if len(items) == 0 {
		return
	}

	s.logger.Info(
		"Sending unresolved reminders",
		"email", user.Email,
		"subject", "You have pending action items",
		"item_count", len(items),
	)
	for _, item := range items {
		s.logger.Info("Pending action item",
			"email", user.Email,
			"meeting_id", item.MeetingID,
			"description", item.Description,
		)
	}
}
