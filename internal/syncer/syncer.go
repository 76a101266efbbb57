// Package syncer reconciles locally persisted meetings with a freshly
// fetched calendar event list.
package syncer

import (
	"context"
	"fmt"

	"github.com/actionhub/action-hub/internal/models"
	"gorm.io/gorm"
)

// Result reports what one reconciliation run changed.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

// Reconcile merges the fetched meetings into the user's persisted set inside
// a single transaction. Any error rolls the whole sync back; partial synced
// state is never visible. Deleting a meeting also deletes its action items.
func Reconcile(ctx context.Context, db *gorm.DB, userID uint, fetched []models.Meeting, w Window) (Result, error) {
	var result Result

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := matchCandidates(tx, userID, fetched, w)
		if err != nil {
			return err
		}

		plan := BuildPlan(existing, fetched, w)

		for i := range plan.Creates {
			meeting := plan.Creates[i]
			meeting.UserID = userID
			if err := tx.Create(&meeting).Error; err != nil {
				return fmt.Errorf("failed to create meeting %s: %w", meeting.GoogleEventID, err)
			}
		}

		for i := range plan.Updates {
			if err := tx.Save(&plan.Updates[i]).Error; err != nil {
				return fmt.Errorf("failed to update meeting %s: %w", plan.Updates[i].GoogleEventID, err)
			}
		}

		if len(plan.Deletes) > 0 {
			// Action items first: soft deletes bypass the DB cascade
			if err := tx.Where("meeting_id IN ?", plan.Deletes).Delete(&models.ActionItem{}).Error; err != nil {
				return fmt.Errorf("failed to delete orphaned action items: %w", err)
			}
			if err := tx.Where("id IN ?", plan.Deletes).Delete(&models.Meeting{}).Error; err != nil {
				return fmt.Errorf("failed to delete orphaned meetings: %w", err)
			}
		}

		result = Result{
			Created: len(plan.Creates),
			Updated: len(plan.Updates),
			Deleted: len(plan.Deletes),
		}
		return nil
	})

	return result, err
}

// matchCandidates loads the meetings the planner needs to see: everything in
// the window (deletion candidates) plus anything matching a fetched event id
// (update candidates, even if it drifted outside the window upstream).
func matchCandidates(tx *gorm.DB, userID uint, fetched []models.Meeting, w Window) ([]models.Meeting, error) {
	var inWindow []models.Meeting
	err := tx.Where("user_id = ? AND start_time >= ? AND start_time <= ?", userID, w.Start, w.End).
		Find(&inWindow).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load meetings in window: %w", err)
	}

	eventIDs := make([]string, 0, len(fetched))
	for _, f := range fetched {
		eventIDs = append(eventIDs, f.GoogleEventID)
	}

	var matched []models.Meeting
	if len(eventIDs) > 0 {
		err = tx.Where("user_id = ? AND google_event_id IN ?", userID, eventIDs).
			Find(&matched).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load matched meetings: %w", err)
		}
	}

	seen := make(map[uint]bool, len(inWindow))
	existing := make([]models.Meeting, 0, len(inWindow)+len(matched))
	for _, m := range inWindow {
		seen[m.ID] = true
		existing = append(existing, m)
	}
	for _, m := range matched {
		if !seen[m.ID] {
			existing = append(existing, m)
		}
	}

	return existing, nil
}
