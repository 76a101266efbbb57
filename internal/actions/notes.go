package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	notionBaseURL = "https://api.notion.com/v1"
	notionVersion = "2022-06-28"
)

// NotesExecutor creates a task page in a Notion database. It serves both the
// Create Task and Add to Obsidian categories.
type NotesExecutor struct {
	baseURL    string
	databaseID string
	httpClient *http.Client
}

// NewNotesExecutor creates an executor writing into the given database.
func NewNotesExecutor(databaseID string) *NotesExecutor {
	return &NotesExecutor{
		baseURL:    notionBaseURL,
		databaseID: databaseID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type notionPageResponse struct {
	URL string `json:"url"`
}

// Execute creates the page. The token is either the user's connected Notion
// token or the server-level integration key, selected by the dispatcher.
func (e *NotesExecutor) Execute(ctx context.Context, payload Payload, token string) (*Result, error) {
	if token == "" || e.databaseID == "" {
		return nil, fmt.Errorf("notion: set API key and database ID in environment settings: %w", ErrNotConfigured)
	}

	description := payload.Description
	if description == "" {
		description = "No description"
	}
	meetingTitle := payload.MeetingTitle
	if meetingTitle == "" {
		meetingTitle = "Unknown Meeting"
	}

	page := map[string]interface{}{
		"parent": map[string]string{"database_id": e.databaseID},
		"properties": map[string]interface{}{
			"Task Name": map[string]interface{}{
				"title": []map[string]interface{}{
					{"text": map[string]string{"content": description}},
				},
			},
		},
		"children": []map[string]interface{}{
			{
				"object": "block",
				"type":   "paragraph",
				"paragraph": map[string]interface{}{
					"rich_text": []map[string]interface{}{
						{
							"type": "text",
							"text": map[string]string{
								"content": fmt.Sprintf("Context from meeting: %s", meetingTitle),
							},
						},
					},
				},
			},
		},
	}

	jsonData, err := json.Marshal(page)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/pages", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("notion returned status %d: %w", resp.StatusCode, ErrAuthFailed)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("notion returned status %d: %s", resp.StatusCode, string(body))
	}

	var created notionPageResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &Result{
		Status:  "success",
		Message: "Task created in Notion",
		Link:    created.URL,
		Details: map[string]string{"notionUrl": created.URL},
	}, nil
}
