package actions

import (
	"errors"
	"net/http"

	"github.com/actionhub/action-hub/internal/auth"
	"github.com/actionhub/action-hub/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handlers bundles the action item endpoints.
type Handlers struct {
	db         *gorm.DB
	dispatcher *Dispatcher
}

// NewHandlers wires up the action item endpoint handlers.
func NewHandlers(db *gorm.DB, dispatcher *Dispatcher) *Handlers {
	return &Handlers{db: db, dispatcher: dispatcher}
}

type createActionItemRequest struct {
	MeetingID   uint   `json:"meeting_id" binding:"required"`
	Description string `json:"description" binding:"required"`
	// Defaults to Create Task when omitted
	SuggestedAction string `json:"suggested_action"`
}

type updateActionItemRequest struct {
	Description     *string `json:"description"`
	IsCompleted     *bool   `json:"is_completed"`
	SuggestedAction *string `json:"suggested_action"`
}

type executeActionRequest struct {
	UserToken string            `json:"user_token"`
	Params    map[string]string `json:"params"`
}

// Create adds a manual action item to one of the caller's meetings.
func (h *Handlers) Create(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	var req createActionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	category := models.ActionCreateTask
	if req.SuggestedAction != "" {
		parsed, err := models.ParseActionType(req.SuggestedAction)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		category = parsed
	}

	// Verify meeting ownership
	var meeting models.Meeting
	err := h.db.Where("id = ? AND user_id = ?", req.MeetingID, user.ID).First(&meeting).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Meeting not found"})
		return
	}

	item := models.ActionItem{
		MeetingID:       meeting.ID,
		Description:     req.Description,
		SuggestedAction: category,
		IsCompleted:     false,
	}
	if err := h.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create action item"})
		return
	}

	c.JSON(http.StatusCreated, item.ToRead())
}

// Update partially updates an action item, ownership-checked through the
// owning meeting.
func (h *Handlers) Update(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	var req updateActionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	item, _, ok := h.ownedItem(c, user.ID)
	if !ok {
		return
	}

	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.IsCompleted != nil {
		item.IsCompleted = *req.IsCompleted
	}
	if req.SuggestedAction != nil {
		parsed, err := models.ParseActionType(*req.SuggestedAction)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		item.SuggestedAction = parsed
	}

	if err := h.db.Save(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update action item"})
		return
	}

	c.JSON(http.StatusOK, item.ToRead())
}

// Execute runs an action item through its executor. The item is marked
// completed only when the executor succeeds.
func (h *Handlers) Execute(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	var req executeActionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	item, meeting, ok := h.ownedItem(c, user.ID)
	if !ok {
		return
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), item, meeting, user, req.Params, req.UserToken)
	if err != nil {
		h.respondExecuteError(c, err)
		return
	}

	item.IsCompleted = true
	if err := h.db.Save(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Action executed but failed to persist completion"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ownedItem loads an action item by the :id route param and verifies the
// caller owns it via a join on the owning meeting. Writes the error response
// itself when the lookup fails.
func (h *Handlers) ownedItem(c *gin.Context, userID uint) (*models.ActionItem, *models.Meeting, bool) {
	var item models.ActionItem
	err := h.db.Joins("JOIN meetings ON meetings.id = action_items.meeting_id").
		Where("action_items.id = ? AND meetings.user_id = ? AND meetings.deleted_at IS NULL", c.Param("id"), userID).
		First(&item).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Action item not found"})
		return nil, nil, false
	}

	var meeting models.Meeting
	if err := h.db.First(&meeting, item.MeetingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Action item not found"})
		return nil, nil, false
	}

	return &item, &meeting, true
}

func (h *Handlers) respondExecuteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error(), "status": "error"})
	case errors.Is(err, ErrMissingCredential):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error(), "status": "error"})
	case errors.Is(err, ErrAuthFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Google authentication failed. Please re-login.", "status": "error"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Executor failed: " + err.Error(), "status": "error"})
	}
}
