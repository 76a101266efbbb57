package notify

import (
	"fmt"
	"net/http"

	"github.com/actionhub/action-hub/internal/auth"
	"github.com/actionhub/action-hub/internal/models"
	"github.com/actionhub/action-hub/internal/worker"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handlers exposes manual notification triggers. The scheduled sweeps cover
// the normal path; these endpoints enqueue an on-demand send for one user.
type Handlers struct {
	db *gorm.DB
}

// NewHandlers wires up the notification endpoint handlers.
func NewHandlers(db *gorm.DB) *Handlers {
	return &Handlers{db: db}
}

// TriggerDailyBrief enqueues an immediate daily brief for the current user.
func (h *Handlers) TriggerDailyBrief(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	if err := worker.EnqueueDailyBrief(user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to enqueue daily brief"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Daily brief triggered successfully"})
}

// TriggerReminders enqueues reminders for the user's incomplete action items.
func (h *Handlers) TriggerReminders(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	var pending int64
	err := h.db.Model(&models.ActionItem{}).
		Joins("JOIN meetings ON meetings.id = action_items.meeting_id").
		Where("meetings.user_id = ? AND meetings.deleted_at IS NULL AND action_items.is_completed = ?", user.ID, false).
		Count(&pending).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load action items"})
		return
	}

	if pending == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No pending items found"})
		return
	}

	if err := worker.EnqueueUnresolvedReminders(user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to enqueue reminders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Reminders queued for %d items", pending)})
}
