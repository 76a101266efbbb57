package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/actionhub/action-hub/internal/models"
)

const (
	notionBaseURL = "https://api.notion.com/v1"
	notionVersion = "2022-06-28"
)

// NotionProvider looks up meeting notes in the user's Notion workspace:
// pages created on the meeting date whose title contains the meeting title.
type NotionProvider struct {
	baseURL      string
	serverAPIKey string
	databaseID   string
	httpClient   *http.Client
}

// NewNotionProvider creates a provider against the real Notion endpoint.
func NewNotionProvider(serverAPIKey, databaseID string) *NotionProvider {
	return &NotionProvider{
		baseURL:      notionBaseURL,
		serverAPIKey: serverAPIKey,
		databaseID:   databaseID,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

type queryResponse struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
}

type blocksResponse struct {
	Results []struct {
		Type      string `json:"type"`
		Paragraph struct {
			RichText []struct {
				PlainText string `json:"plain_text"`
			} `json:"rich_text"`
		} `json:"paragraph"`
	} `json:"results"`
}

// FetchContent queries the configured database and concatenates the
// paragraph text of the first matching page. The user's connected token is
// preferred over the server-level integration key.
func (p *NotionProvider) FetchContent(ctx context.Context, user *models.User, title, date string) (string, error) {
	token := p.serverAPIKey
	if user != nil && user.NotionAccessToken != "" {
		token = user.NotionAccessToken
	}
	if token == "" || p.databaseID == "" {
		return "", nil
	}

	pageID, err := p.findPage(ctx, token, title, date)
	if err != nil {
		return "", err
	}
	if pageID == "" {
		return "", nil
	}

	return p.pageText(ctx, token, pageID)
}

func (p *NotionProvider) findPage(ctx context.Context, token, title, date string) (string, error) {
	filter := map[string]interface{}{
		"filter": map[string]interface{}{
			"and": []map[string]interface{}{
				{
					"timestamp": "created_time",
					"created_time": map[string]string{
						"on_or_after": date,
					},
				},
				{
					"property": "title",
					"title": map[string]string{
						"contains": title,
					},
				},
			},
		},
		"page_size": 1,
	}

	jsonData, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("failed to marshal query: %w", err)
	}

	url := fmt.Sprintf("%s/databases/%s/query", p.baseURL, p.databaseID)
	body, err := p.post(ctx, token, url, jsonData)
	if err != nil {
		return "", err
	}

	var query queryResponse
	if err := json.Unmarshal(body, &query); err != nil {
		return "", fmt.Errorf("failed to decode query response: %w", err)
	}
	if len(query.Results) == 0 {
		return "", nil
	}
	return query.Results[0].ID, nil
}

func (p *NotionProvider) pageText(ctx context.Context, token, pageID string) (string, error) {
	url := fmt.Sprintf("%s/blocks/%s/children", p.baseURL, pageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	p.setHeaders(req, token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("notion returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var blocks blocksResponse
	if err := json.NewDecoder(resp.Body).Decode(&blocks); err != nil {
		return "", fmt.Errorf("failed to decode blocks response: %w", err)
	}

	var parts []string
	for _, block := range blocks.Results {
		if block.Type != "paragraph" {
			continue
		}
		for _, rt := range block.Paragraph.RichText {
			if rt.PlainText != "" {
				parts = append(parts, rt.PlainText)
			}
		}
	}

	return strings.Join(parts, "\n"), nil
}

func (p *NotionProvider) post(ctx context.Context, token, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	p.setHeaders(req, token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("notion returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

func (p *NotionProvider) setHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")
}
