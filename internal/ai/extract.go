package ai

import (
	"fmt"
	"strings"

	"github.com/actionhub/action-hub/internal/models"
)

// CoerceActionType maps a raw category label onto the closed enum. Labels
// that don't parse exactly fall through keyword matching, and anything still
// unrecognized becomes Create Task. An action item never leaves this
// function without a valid category.
func CoerceActionType(label string) models.ActionType {
	if parsed, err := models.ParseActionType(label); err == nil {
		return parsed
	}

	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "email"):
		return models.ActionSendEmail
	case strings.Contains(lower, "calendar"), strings.Contains(lower, "schedule"):
		return models.ActionCreateCalendarInvite
	case strings.Contains(lower, "note"), strings.Contains(lower, "obsidian"):
		return models.ActionAddToObsidian
	}
	return models.ActionCreateTask
}

// NormalizeItem converts a raw extracted item into persistable fields.
// Assignees other than the self-referential "me" are prefixed onto the
// description in bracketed form.
func NormalizeItem(item RawItem) (models.ActionType, string) {
	description := item.Description
	if item.Assignee != "" && !strings.EqualFold(item.Assignee, "me") {
		description = fmt.Sprintf("[%s] %s", item.Assignee, description)
	}
	return CoerceActionType(item.ActionType), description
}
