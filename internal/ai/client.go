// Package ai extracts meeting summaries and action items via the Groq
// chat-completions API.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// Client handles communication with the Groq API for meeting analysis.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	stubMode   bool
}

// NewClient creates a new extraction client with the given configuration.
func NewClient(apiKey, model string, stubMode bool) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		stubMode:   stubMode,
	}
}

// RawItem is one action item as the model returned it, before the category
// label is coerced onto the closed enum.
type RawItem struct {
	ActionType  string `json:"action_type"`
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
}

// Extraction is the parsed model output for one meeting.
type Extraction struct {
	Summary     string    `json:"summary"`
	ActionItems []RawItem `json:"action_items"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ProcessMeeting analyzes meeting content and returns a summary plus
// extracted action items. Failures never propagate: the result degrades to
// a placeholder summary with no items, and the caller proceeds normally.
func (c *Client) ProcessMeeting(ctx context.Context, title, content string, participants []string) Extraction {
	if content == "" {
		return Extraction{Summary: "No content available to analyze."}
	}

	if c.stubMode {
		return Extraction{
			Summary: fmt.Sprintf("Stub summary for %q.", title),
			ActionItems: []RawItem{
				{ActionType: "Create Task", Description: "Review the meeting notes", Assignee: "Me"},
			},
		}
	}

	extraction, err := c.complete(ctx, title, content, participants)
	if err != nil {
		log.Printf("AI extraction failed: %v", err)
		return Extraction{Summary: "Error processing meeting with AI."}
	}
	return extraction
}

func (c *Client) complete(ctx context.Context, title, content string, participants []string) (Extraction, error) {
	prompt := fmt.Sprintf(`Analyze the following meeting transcript/notes:
Title: %s
Participants: %s
Content: %s

1. Provide a concise summary of the meeting.
2. Extract explicit Next Steps. Return a JSON object with a key "action_items" containing a list. Each item must have:
   - "action_type": (One of: "Send Email", "Create Calendar Invite", "Create Task", "Add to Obsidian")
   - "description": (Clear summary of what to do)
   - "assignee": (Name of the person responsible, or "Me" if unclear)

Return the result in JSON format:
{
    "summary": "string",
    "action_items": [
        {
            "action_type": "string (one of the options above)",
            "description": "string",
            "assignee": "string"
        }
    ]
}`, title, strings.Join(participants, ", "), content)

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a helpful assistant that summarizes meetings and extracts actionable tasks. You must respond with valid JSON."},
			{Role: "user", Content: prompt},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return Extraction{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return Extraction{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Extraction{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Extraction{}, fmt.Errorf("groq returned status %d: %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return Extraction{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return Extraction{}, fmt.Errorf("empty response from model")
	}

	var extraction Extraction
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &extraction); err != nil {
		return Extraction{}, fmt.Errorf("failed to parse model output: %w", err)
	}

	return extraction, nil
}
