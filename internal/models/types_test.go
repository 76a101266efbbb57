package models

import "testing"

func TestParseActionType(t *testing.T) {
	valid := []string{"Send Email", "Create Calendar Invite", "Create Task", "Add to Obsidian"}
	for _, s := range valid {
		got, err := ParseActionType(s)
		if err != nil {
			t.Errorf("ParseActionType(%q) returned error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseActionType(%q) = %q", s, got)
		}
	}

	invalid := []string{"", "send email", "Email", "Task", "Create  Task"}
	for _, s := range invalid {
		if _, err := ParseActionType(s); err == nil {
			t.Errorf("ParseActionType(%q) expected error", s)
		}
	}
}

func TestActionTypeValid(t *testing.T) {
	if !ActionCreateTask.Valid() {
		t.Error("expected Create Task to be valid")
	}
	if ActionType("Do Stuff").Valid() {
		t.Error("expected unknown category to be invalid")
	}
}

func TestMeetingParticipants(t *testing.T) {
	var m Meeting
	if got := m.ParticipantList(); len(got) != 0 {
		t.Errorf("expected empty list for unset column, got %v", got)
	}

	if err := m.SetParticipants([]string{"a@example.com", "b@example.com"}); err != nil {
		t.Fatalf("SetParticipants failed: %v", err)
	}
	got := m.ParticipantList()
	if len(got) != 2 || got[0] != "a@example.com" || got[1] != "b@example.com" {
		t.Errorf("unexpected participants %v", got)
	}

	if err := m.SetParticipants(nil); err != nil {
		t.Fatalf("SetParticipants(nil) failed: %v", err)
	}
	if got := m.ParticipantList(); len(got) != 0 {
		t.Errorf("expected empty list after nil set, got %v", got)
	}
}

func TestNotificationFlags(t *testing.T) {
	var u User

	daily, reminders := u.NotificationFlags()
	if !daily || reminders {
		t.Errorf("expected defaults dailyBrief=true reminders=false, got %v %v", daily, reminders)
	}

	u.NotificationPreferences = []byte(`{"dailyBrief": false, "unresolvedReminders": true}`)
	daily, reminders = u.NotificationFlags()
	if daily || !reminders {
		t.Errorf("expected stored flags to win, got %v %v", daily, reminders)
	}

	u.NotificationPreferences = []byte(`not json`)
	daily, _ = u.NotificationFlags()
	if !daily {
		t.Error("expected malformed blob to fall back to defaults")
	}
}
