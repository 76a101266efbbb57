// Package dashboard exposes the daily overview endpoints.
package dashboard

import (
	"net/http"
	"sort"
	"time"

	"github.com/actionhub/action-hub/internal/auth"
	"github.com/actionhub/action-hub/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handlers bundles the dashboard endpoints.
type Handlers struct {
	db *gorm.DB
}

// NewHandlers wires up the dashboard endpoint handlers.
func NewHandlers(db *gorm.DB) *Handlers {
	return &Handlers{db: db}
}

type dayResponse struct {
	Date       string               `json:"date"`
	IsResolved bool                 `json:"is_resolved"`
	Meetings   []models.MeetingRead `json:"meetings"`
}

// Today returns the meetings around the current day with their action items.
// The display window is deliberately wider than the sync window (yesterday
// through tomorrow UTC) so users in any timezone see their day.
func (h *Handlers) Today(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	now := time.Now().UTC()
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	windowEnd := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999000, time.UTC).AddDate(0, 0, 1)

	var meetings []models.Meeting
	err := h.db.Preload("ActionItems").
		Where("user_id = ? AND start_time >= ? AND start_time <= ?", user.ID, windowStart, windowEnd).
		Order("start_time").
		Find(&meetings).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load dashboard"})
		return
	}

	isResolved := true
	reads := make([]models.MeetingRead, 0, len(meetings))
	for _, m := range meetings {
		for _, item := range m.ActionItems {
			if !item.IsCompleted {
				isResolved = false
			}
		}
		reads = append(reads, m.ToRead())
	}

	c.JSON(http.StatusOK, dayResponse{
		Date:       now.Format("2006-01-02"),
		IsResolved: isResolved,
		Meetings:   reads,
	})
}

// History returns the past 7 days of meetings grouped per day, newest first.
func (h *Handlers) History(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	now := time.Now().UTC()
	endDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startDate := endDate.AddDate(0, 0, -7)

	var meetings []models.Meeting
	err := h.db.Preload("ActionItems").
		Where("user_id = ? AND start_time >= ? AND start_time < ?", user.ID, startDate, endDate).
		Order("start_time DESC").
		Find(&meetings).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load history"})
		return
	}

	byDate := map[string]*dayResponse{}
	for _, m := range meetings {
		date := m.StartTime.UTC().Format("2006-01-02")
		day, ok := byDate[date]
		if !ok {
			day = &dayResponse{Date: date, IsResolved: true}
			byDate[date] = day
		}

		day.Meetings = append(day.Meetings, m.ToRead())
		for _, item := range m.ActionItems {
			if !item.IsCompleted {
				day.IsResolved = false
			}
		}
	}

	history := make([]dayResponse, 0, len(byDate))
	for _, day := range byDate {
		history = append(history, *day)
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Date > history[j].Date
	})

	c.JSON(http.StatusOK, history)
}
