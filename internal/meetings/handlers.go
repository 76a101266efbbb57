// Package meetings exposes the sync and analysis endpoints.
package meetings

import (
	"net/http"
	"time"

	"github.com/actionhub/action-hub/internal/ai"
	"github.com/actionhub/action-hub/internal/auth"
	"github.com/actionhub/action-hub/internal/calendar"
	"github.com/actionhub/action-hub/internal/content"
	"github.com/actionhub/action-hub/internal/models"
	"github.com/actionhub/action-hub/internal/syncer"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handlers bundles the meeting endpoints with their collaborators.
type Handlers struct {
	db        *gorm.DB
	calendar  *calendar.Client
	extractor *ai.Client
	providers content.Chain
	notion    *content.NotionProvider
}

// NewHandlers wires up the meeting endpoint handlers.
func NewHandlers(db *gorm.DB, cal *calendar.Client, extractor *ai.Client, notion *content.NotionProvider) *Handlers {
	return &Handlers{
		db:        db,
		calendar:  cal,
		extractor: extractor,
		providers: content.Chain{notion, content.NewGranolaProvider()},
		notion:    notion,
	}
}

type processMeetingRequest struct {
	// Optional; when absent the content provider chain is consulted
	Content string `json:"content"`
}

type analyzeMeetingRequest struct {
	NotesText string `json:"notes_text" binding:"required"`
}

// Sync pulls today's events from Google Calendar and reconciles them into
// local storage. The same window drives both the fetch and the orphan scan.
func (h *Handlers) Sync(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	accessToken := c.GetHeader("X-Google-Access-Token")
	if accessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Google Access Token required for sync"})
		return
	}

	window := syncer.TodayWindow(time.Now())

	fetched, err := h.calendar.FetchMeetings(c.Request.Context(), accessToken, window.Start, window.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Failed to fetch from Google Calendar: " + err.Error()})
		return
	}

	result, err := syncer.Reconcile(c.Request.Context(), h.db, user.ID, fetched, window)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Sync failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sync successful",
		"created": result.Created,
		"updated": result.Updated,
		"deleted": result.Deleted,
	})
}

// Process analyzes a meeting's content. When the request carries no content,
// the provider chain is consulted before falling back to the no-content
// sentinel; extraction results are persisted as summary plus action items.
func (h *Handlers) Process(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	meeting, ok := h.ownedMeeting(c, user.ID)
	if !ok {
		return
	}

	var req processMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	meetingContent := req.Content
	if meetingContent == "" {
		date := meeting.StartTime.UTC().Format("2006-01-02")
		meetingContent = h.providers.FetchFirst(c.Request.Context(), user, meeting.Title, date)
	}
	if meetingContent == "" {
		meetingContent = content.NoContentSentinel
	}

	h.analyzeAndRespond(c, meeting, meetingContent)
}

// Analyze extracts next steps from caller-supplied notes text and persists
// them.
func (h *Handlers) Analyze(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	var req analyzeMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	meeting, ok := h.ownedMeeting(c, user.ID)
	if !ok {
		return
	}

	h.analyzeAndRespond(c, meeting, req.NotesText)
}

// FetchNotes returns the meeting's Notion notes without running extraction.
func (h *Handlers) FetchNotes(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	meeting, ok := h.ownedMeeting(c, user.ID)
	if !ok {
		return
	}

	date := meeting.StartTime.UTC().Format("2006-01-02")
	notes, err := h.notion.FetchContent(c.Request.Context(), user, meeting.Title, date)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"detail": "Failed to fetch notes: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// analyzeAndRespond runs extraction, persists the summary and coerced action
// items, and responds with the refreshed meeting. Extraction failure
// degrades inside the extractor; this path never fails on the AI call.
func (h *Handlers) analyzeAndRespond(c *gin.Context, meeting *models.Meeting, meetingContent string) {
	extraction := h.extractor.ProcessMeeting(c.Request.Context(), meeting.Title, meetingContent, meeting.ParticipantList())

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(meeting).Update("summary", extraction.Summary).Error; err != nil {
			return err
		}

		for _, raw := range extraction.ActionItems {
			category, description := ai.NormalizeItem(raw)
			item := models.ActionItem{
				MeetingID:       meeting.ID,
				Description:     description,
				SuggestedAction: category,
				IsCompleted:     false,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to save analysis results"})
		return
	}

	var refreshed models.Meeting
	if err := h.db.Preload("ActionItems").First(&refreshed, meeting.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to reload meeting"})
		return
	}

	c.JSON(http.StatusOK, refreshed.ToRead())
}

// ownedMeeting loads the :id meeting and verifies the caller owns it.
// Writes the error response itself when the lookup fails.
func (h *Handlers) ownedMeeting(c *gin.Context, userID uint) (*models.Meeting, bool) {
	var meeting models.Meeting
	err := h.db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&meeting).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Meeting not found"})
		return nil, false
	}
	return &meeting, true
}
