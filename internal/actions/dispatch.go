package actions

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/actionhub/action-hub/internal/models"
	"github.com/google/uuid"
)

// Dispatcher routes an action item to the executor for its category and
// owns credential selection and payload normalization.
type Dispatcher struct {
	email    Executor
	calendar Executor
	notes    Executor

	// server-level Notion integration key, used when the user has not
	// connected their own workspace
	serverNotionKey string

	now func() time.Time
}

// NewDispatcher wires the concrete executors.
func NewDispatcher(serverNotionKey, notionDatabaseID string) *Dispatcher {
	return &Dispatcher{
		email:           NewEmailExecutor(),
		calendar:        NewCalendarLinkExecutor(),
		notes:           NewNotesExecutor(notionDatabaseID),
		serverNotionKey: serverNotionKey,
		now:             time.Now,
	}
}

// ResolveCategory picks the category to execute. An override that fails to
// parse is logged and the stored category is used; the request never fails
// on a bad override.
func ResolveCategory(override string, stored models.ActionType) models.ActionType {
	if override == "" {
		return stored
	}
	parsed, err := models.ParseActionType(override)
	if err != nil {
		log.Printf("Invalid action type override %q, falling back to stored %q", override, stored)
		return stored
	}
	return parsed
}

// BuildPayload merges caller-supplied parameters over item-derived defaults
// and fills the category-specific required fields.
func (d *Dispatcher) BuildPayload(item *models.ActionItem, meeting *models.Meeting, category models.ActionType, params map[string]string) Payload {
	fields := make(map[string]string, len(params)+2)
	for k, v := range params {
		fields[k] = v
	}

	ensure := func(key, value string) {
		if _, ok := fields[key]; !ok {
			fields[key] = value
		}
	}

	switch category {
	case models.ActionSendEmail:
		ensure("body", item.Description)
		ensure("subject", fmt.Sprintf("Follow up: %s", meeting.Title))
	case models.ActionCreateCalendarInvite:
		ensure("summary", item.Description)
		ensure("dates", ParseMeetingDates(item.Description, d.now()))
	case models.ActionCreateTask, models.ActionAddToObsidian:
		// notes executor needs nothing beyond the description
	}

	return Payload{
		Description:  item.Description,
		MeetingTitle: meeting.Title,
		Participants: meeting.ParticipantList(),
		MeetingStart: meeting.StartTime,
		Fields:       fields,
	}
}

// SelectCredential chooses the credential the category's executor needs.
// Notes categories prefer the user's connected Notion token and fall back to
// the server-level integration key; the email executor gets the caller's
// Google access token; the calendar link executor needs none.
func (d *Dispatcher) SelectCredential(category models.ActionType, user *models.User, callerToken string) string {
	switch category {
	case models.ActionCreateTask, models.ActionAddToObsidian:
		if user != nil && user.NotionAccessToken != "" {
			return user.NotionAccessToken
		}
		return d.serverNotionKey
	case models.ActionSendEmail:
		return callerToken
	case models.ActionCreateCalendarInvite:
		return ""
	}
	return callerToken
}

// Dispatch resolves the category, normalizes the payload, selects a
// credential and invokes the matching executor. It does not touch storage;
// the caller persists the completion flag only after a success.
func (d *Dispatcher) Dispatch(ctx context.Context, item *models.ActionItem, meeting *models.Meeting, user *models.User, params map[string]string, callerToken string) (*Result, error) {
	category := ResolveCategory(params["action_type"], item.SuggestedAction)

	payload := d.BuildPayload(item, meeting, category, params)
	credential := d.SelectCredential(category, user, callerToken)

	var executor Executor
	switch category {
	case models.ActionSendEmail:
		executor = d.email
	case models.ActionCreateCalendarInvite:
		executor = d.calendar
	case models.ActionCreateTask, models.ActionAddToObsidian:
		executor = d.notes
	default:
		return nil, fmt.Errorf("no executor for action type %q", category)
	}

	result, err := executor.Execute(ctx, payload, credential)
	if err != nil {
		return nil, err
	}

	result.ExecutionID = uuid.New().String()
	if result.Message == "" {
		result.Message = "Action executed successfully"
	}
	return result, nil
}
