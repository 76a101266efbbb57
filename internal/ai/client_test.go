package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProcessMeetingEmptyContent(t *testing.T) {
	c := NewClient("key", "model", false)

	extraction := c.ProcessMeeting(context.Background(), "Standup", "", nil)

	if extraction.Summary != "No content available to analyze." {
		t.Errorf("expected placeholder summary, got %q", extraction.Summary)
	}
	if len(extraction.ActionItems) != 0 {
		t.Errorf("expected no action items, got %d", len(extraction.ActionItems))
	}
}

func TestProcessMeetingStubMode(t *testing.T) {
	c := NewClient("", "model", true)

	extraction := c.ProcessMeeting(context.Background(), "Standup", "notes", nil)

	if extraction.Summary == "" {
		t.Error("expected a stub summary")
	}
	if len(extraction.ActionItems) == 0 {
		t.Fatal("expected stub action items")
	}
	if extraction.ActionItems[0].ActionType != "Create Task" {
		t.Errorf("expected stub Create Task item, got %q", extraction.ActionItems[0].ActionType)
	}
}

func TestProcessMeetingParsesModelOutput(t *testing.T) {
	modelOutput := `{"summary":"Team discussed launch.","action_items":[{"action_type":"Send Email","description":"Email the launch plan","assignee":"Me"}]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.ResponseFormat.Type != "json_object" {
			t.Errorf("expected json_object response format, got %q", req.ResponseFormat.Type)
		}

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": modelOutput}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := &Client{
		baseURL:    srv.URL,
		apiKey:     "test-key",
		model:      "test-model",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}

	extraction := c.ProcessMeeting(context.Background(), "Launch Sync", "we talked", []string{"a@b.com"})

	if extraction.Summary != "Team discussed launch." {
		t.Errorf("unexpected summary %q", extraction.Summary)
	}
	if len(extraction.ActionItems) != 1 {
		t.Fatalf("expected 1 action item, got %d", len(extraction.ActionItems))
	}
	if extraction.ActionItems[0].Description != "Email the launch plan" {
		t.Errorf("unexpected description %q", extraction.ActionItems[0].Description)
	}
}

func TestProcessMeetingDegradesOnUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := &Client{
		baseURL:    srv.URL,
		apiKey:     "key",
		model:      "model",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}

	extraction := c.ProcessMeeting(context.Background(), "Standup", "notes", nil)

	if extraction.Summary != "Error processing meeting with AI." {
		t.Errorf("expected degraded summary, got %q", extraction.Summary)
	}
	if len(extraction.ActionItems) != 0 {
		t.Errorf("expected no action items on failure, got %d", len(extraction.ActionItems))
	}
}
