package actions

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

const gmailBaseURL = "https://gmail.googleapis.com/gmail/v1"

var emailAddressPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+`)

// EmailExecutor creates a draft follow-up email in the user's Gmail account.
type EmailExecutor struct {
	baseURL    string
	httpClient *http.Client
}

// NewEmailExecutor creates an executor against the real Gmail endpoint.
func NewEmailExecutor() *EmailExecutor {
	return &EmailExecutor{
		baseURL:    gmailBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type draftResponse struct {
	ID      string `json:"id"`
	Message struct {
		ID string `json:"id"`
	} `json:"message"`
}

// Execute drafts the email and returns a link to it. The token must be a
// Google access token with the gmail.compose scope.
func (e *EmailExecutor) Execute(ctx context.Context, payload Payload, token string) (*Result, error) {
	if token == "" {
		return nil, fmt.Errorf("google access token: %w", ErrMissingCredential)
	}

	// Pull a recipient out of the description when none was supplied
	recipient := payload.Field("recipient", "")
	if recipient == "" {
		recipient = emailAddressPattern.FindString(payload.Description)
	}

	meetingTitle := payload.MeetingTitle
	if meetingTitle == "" {
		meetingTitle = "our meeting"
	}

	subject := payload.Field("subject", fmt.Sprintf("Follow up: %s", meetingTitle))
	body := payload.Field("body", fmt.Sprintf(
		"Hi,\n\nFollowing up on our meeting '%s', I wanted to address this action item:\n\n%s\n\nBest regards,",
		meetingTitle, payload.Description,
	))

	raw := encodeMessage(recipient, subject, body)
	reqBody, err := json.Marshal(map[string]interface{}{
		"message": map[string]string{"raw": raw},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/users/me/drafts", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("gmail returned status %d: %w", resp.StatusCode, ErrAuthFailed)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gmail returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var draft draftResponse
	if err := json.NewDecoder(resp.Body).Decode(&draft); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &Result{
		Status:  "success",
		Message: "Draft email created",
		Link:    fmt.Sprintf("https://mail.google.com/mail/u/0/#drafts?compose=%s", draft.Message.ID),
		Details: map[string]string{"draft_id": draft.ID},
	}, nil
}

// encodeMessage builds an RFC 2822 plain-text message and encodes it the way
// the Gmail API expects (URL-safe base64).
func encodeMessage(to, subject, body string) string {
	var msg bytes.Buffer
	if to != "" {
		fmt.Fprintf(&msg, "To: %s\r\n", to)
	}
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	return base64.URLEncoding.EncodeToString(msg.Bytes())
}
