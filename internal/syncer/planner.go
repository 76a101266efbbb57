package syncer

import "github.com/actionhub/action-hub/internal/models"

// Plan is the set of storage mutations one reconciliation run will apply.
type Plan struct {
	// Creates are fetched meetings with no local counterpart
	Creates []models.Meeting
	// Updates are existing local records with their mutable fields
	// refreshed from the fetch; local ids are unchanged
	Updates []models.Meeting
	// Deletes are local meeting ids inside the window whose event id was
	// absent from the fetch
	Deletes []uint
}

// BuildPlan diffs the locally persisted meetings against a freshly fetched
// event list.
//
//   - A fetched record matching an existing meeting by event id refreshes
//     that meeting's title, times, participants and type in place. The
//     stored summary is kept unless the fetched record carries a non-empty
//     one.
//   - A fetched record with an unknown event id becomes a create.
//   - An existing meeting whose start time lies in the window but whose
//     event id is missing from the fetch becomes a delete. Meetings outside
//     the window are never deleted, even when passed in as match candidates.
func BuildPlan(existing []models.Meeting, fetched []models.Meeting, w Window) Plan {
	byEventID := make(map[string]*models.Meeting, len(existing))
	for i := range existing {
		byEventID[existing[i].GoogleEventID] = &existing[i]
	}

	fetchedIDs := make(map[string]bool, len(fetched))
	var plan Plan

	for _, f := range fetched {
		fetchedIDs[f.GoogleEventID] = true

		current, ok := byEventID[f.GoogleEventID]
		if !ok {
			plan.Creates = append(plan.Creates, f)
			continue
		}

		updated := *current
		updated.Title = f.Title
		updated.StartTime = f.StartTime
		updated.EndTime = f.EndTime
		updated.Participants = f.Participants
		updated.Type = f.Type
		if f.Summary != "" {
			updated.Summary = f.Summary
		}
		plan.Updates = append(plan.Updates, updated)
	}

	for i := range existing {
		m := &existing[i]
		if !fetchedIDs[m.GoogleEventID] && w.Contains(m.StartTime) {
			plan.Deletes = append(plan.Deletes, m.ID)
		}
	}

	return plan
}
