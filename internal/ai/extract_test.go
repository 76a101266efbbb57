package ai

import (
	"testing"

	"github.com/actionhub/action-hub/internal/models"
)

func TestCoerceActionType(t *testing.T) {
	cases := []struct {
		label string
		want  models.ActionType
	}{
		{"Send Email", models.ActionSendEmail},
		{"Create Calendar Invite", models.ActionCreateCalendarInvite},
		{"Create Task", models.ActionCreateTask},
		{"Add to Obsidian", models.ActionAddToObsidian},
		{"Send an email to the client", models.ActionSendEmail},
		{"Schedule a follow-up", models.ActionCreateCalendarInvite},
		{"Add to calendar", models.ActionCreateCalendarInvite},
		{"Write a note about this", models.ActionAddToObsidian},
		{"obsidian", models.ActionAddToObsidian},
		{"Do the thing", models.ActionCreateTask},
		{"", models.ActionCreateTask},
	}

	for _, tc := range cases {
		if got := CoerceActionType(tc.label); got != tc.want {
			t.Errorf("CoerceActionType(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestCoerceActionTypeNeverInvalid(t *testing.T) {
	labels := []string{"", "???", "send EMAIL now", "random"}
	for _, label := range labels {
		if got := CoerceActionType(label); !got.Valid() {
			t.Errorf("CoerceActionType(%q) produced invalid category %q", label, got)
		}
	}
}

func TestNormalizeItemSelfAssignee(t *testing.T) {
	for _, assignee := range []string{"me", "Me", "ME", ""} {
		_, description := NormalizeItem(RawItem{
			ActionType:  "Create Task",
			Description: "Review the deck",
			Assignee:    assignee,
		})
		if description != "Review the deck" {
			t.Errorf("assignee %q: expected unprefixed description, got %q", assignee, description)
		}
	}
}

func TestNormalizeItemOtherAssigneePrefixed(t *testing.T) {
	category, description := NormalizeItem(RawItem{
		ActionType:  "Send Email",
		Description: "Send the pricing deck",
		Assignee:    "Sarah",
	})

	if description != "[Sarah] Send the pricing deck" {
		t.Errorf("expected bracketed assignee prefix, got %q", description)
	}
	if category != models.ActionSendEmail {
		t.Errorf("expected Send Email, got %q", category)
	}
}
