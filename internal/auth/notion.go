package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const notionTokenURL = "https://api.notion.com/v1/oauth/token"

// NotionOAuthClient exchanges Notion authorization codes for access tokens.
type NotionOAuthClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
}

// NotionToken is the relevant part of Notion's token response.
type NotionToken struct {
	AccessToken string `json:"access_token"`
	BotID       string `json:"bot_id"`
}

// NewNotionOAuthClient creates a client for the Notion OAuth token endpoint.
func NewNotionOAuthClient(clientID, clientSecret, redirectURI string) *NotionOAuthClient {
	return &NotionOAuthClient{
		baseURL:      notionTokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// ExchangeCode trades an authorization code for an access token.
// Notion requires HTTP basic auth with the integration's client credentials.
func (n *NotionOAuthClient) ExchangeCode(ctx context.Context, code string) (*NotionToken, error) {
	payload := map[string]string{
		"grant_type":   "authorization_code",
		"code":         code,
		"redirect_uri": n.redirectURI,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(n.clientID + ":" + n.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("notion token endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var token NotionToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &token, nil
}
