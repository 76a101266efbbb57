package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/actionhub/action-hub/internal/models"
)

// fakeExecutor records the invocation and returns a canned result.
type fakeExecutor struct {
	called  bool
	payload Payload
	token   string
	result  *Result
	err     error
}

func (f *fakeExecutor) Execute(ctx context.Context, payload Payload, token string) (*Result, error) {
	f.called = true
	f.payload = payload
	f.token = token
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &Result{Status: "success"}, nil
}

func testDispatcher() (*Dispatcher, *fakeExecutor, *fakeExecutor, *fakeExecutor) {
	email := &fakeExecutor{}
	calendar := &fakeExecutor{}
	notes := &fakeExecutor{}
	d := &Dispatcher{
		email:           email,
		calendar:        calendar,
		notes:           notes,
		serverNotionKey: "server-key",
		now:             func() time.Time { return time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC) },
	}
	return d, email, calendar, notes
}

func testItem(category models.ActionType) *models.ActionItem {
	return &models.ActionItem{
		Description:     "Send the pricing deck to bob@example.com",
		SuggestedAction: category,
	}
}

func testMeeting() *models.Meeting {
	m := &models.Meeting{
		Title:     "Client Sync",
		StartTime: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
	}
	m.SetParticipants([]string{"bob@example.com"})
	return m
}

func TestResolveCategoryNoOverride(t *testing.T) {
	got := ResolveCategory("", models.ActionSendEmail)
	if got != models.ActionSendEmail {
		t.Errorf("expected stored category, got %q", got)
	}
}

func TestResolveCategoryValidOverride(t *testing.T) {
	got := ResolveCategory("Create Calendar Invite", models.ActionSendEmail)
	if got != models.ActionCreateCalendarInvite {
		t.Errorf("expected override to win, got %q", got)
	}
}

func TestResolveCategoryInvalidOverrideFallsBack(t *testing.T) {
	got := ResolveCategory("Launch Rockets", models.ActionCreateTask)
	if got != models.ActionCreateTask {
		t.Errorf("expected fallback to stored category, got %q", got)
	}
}

func TestBuildPayloadEmailDefaults(t *testing.T) {
	d, _, _, _ := testDispatcher()
	item := testItem(models.ActionSendEmail)

	p := d.BuildPayload(item, testMeeting(), models.ActionSendEmail, nil)

	if got := p.Field("body", ""); got != item.Description {
		t.Errorf("expected body default from description, got %q", got)
	}
	if got := p.Field("subject", ""); got != "Follow up: Client Sync" {
		t.Errorf("expected derived subject, got %q", got)
	}
}

func TestBuildPayloadCallerParamsWin(t *testing.T) {
	d, _, _, _ := testDispatcher()
	item := testItem(models.ActionSendEmail)

	p := d.BuildPayload(item, testMeeting(), models.ActionSendEmail, map[string]string{
		"subject": "Custom subject",
	})

	if got := p.Field("subject", ""); got != "Custom subject" {
		t.Errorf("expected caller subject to win, got %q", got)
	}
}

func TestBuildPayloadCalendarDefaults(t *testing.T) {
	d, _, _, _ := testDispatcher()
	item := testItem(models.ActionCreateCalendarInvite)

	p := d.BuildPayload(item, testMeeting(), models.ActionCreateCalendarInvite, nil)

	if got := p.Field("summary", ""); got != item.Description {
		t.Errorf("expected summary default, got %q", got)
	}
	if got := p.Field("dates", ""); got == "" {
		t.Error("expected a derived dates range")
	}
}

func TestSelectCredentialNotesPrefersUserToken(t *testing.T) {
	d, _, _, _ := testDispatcher()
	user := &models.User{NotionAccessToken: "user-token"}

	if got := d.SelectCredential(models.ActionCreateTask, user, "caller"); got != "user-token" {
		t.Errorf("expected user token, got %q", got)
	}
}

func TestSelectCredentialNotesFallsBackToServerKey(t *testing.T) {
	d, _, _, _ := testDispatcher()

	if got := d.SelectCredential(models.ActionAddToObsidian, &models.User{}, "caller"); got != "server-key" {
		t.Errorf("expected server key fallback, got %q", got)
	}
}

func TestSelectCredentialEmailUsesCallerToken(t *testing.T) {
	d, _, _, _ := testDispatcher()

	if got := d.SelectCredential(models.ActionSendEmail, &models.User{NotionAccessToken: "nt"}, "google-token"); got != "google-token" {
		t.Errorf("expected caller google token, got %q", got)
	}
}

func TestSelectCredentialCalendarNeedsNone(t *testing.T) {
	d, _, _, _ := testDispatcher()

	if got := d.SelectCredential(models.ActionCreateCalendarInvite, &models.User{NotionAccessToken: "nt"}, "google-token"); got != "" {
		t.Errorf("expected no credential, got %q", got)
	}
}

func TestDispatchRoutesToEmail(t *testing.T) {
	d, email, calendar, notes := testDispatcher()

	result, err := d.Dispatch(context.Background(), testItem(models.ActionSendEmail), testMeeting(), &models.User{}, nil, "google-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !email.called || calendar.called || notes.called {
		t.Error("expected only the email executor to run")
	}
	if email.token != "google-token" {
		t.Errorf("expected caller token forwarded, got %q", email.token)
	}
	if result.ExecutionID == "" {
		t.Error("expected an execution id")
	}
	if result.Message == "" {
		t.Error("expected a default message")
	}
}

func TestDispatchRoutesObsidianToNotes(t *testing.T) {
	d, _, _, notes := testDispatcher()
	user := &models.User{NotionAccessToken: "user-token"}

	_, err := d.Dispatch(context.Background(), testItem(models.ActionAddToObsidian), testMeeting(), user, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !notes.called {
		t.Fatal("expected notes executor to run")
	}
	if notes.token != "user-token" {
		t.Errorf("expected user notion token, got %q", notes.token)
	}
}

func TestDispatchOverrideRoutesDifferently(t *testing.T) {
	d, email, calendar, _ := testDispatcher()

	_, err := d.Dispatch(context.Background(), testItem(models.ActionSendEmail), testMeeting(), &models.User{},
		map[string]string{"action_type": "Create Calendar Invite"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if email.called || !calendar.called {
		t.Error("expected override to route to the calendar executor")
	}
}

func TestDispatchPropagatesExecutorError(t *testing.T) {
	d, _, _, notes := testDispatcher()
	notes.err = ErrNotConfigured

	_, err := d.Dispatch(context.Background(), testItem(models.ActionCreateTask), testMeeting(), &models.User{}, nil, "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
