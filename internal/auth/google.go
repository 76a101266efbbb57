package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleUserInfo is the subset of the userinfo response we care about.
type GoogleUserInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleVerifier validates Google access tokens by fetching the user's
// profile from the userinfo endpoint.
type GoogleVerifier struct {
	baseURL    string
	httpClient *http.Client
}

// NewGoogleVerifier creates a verifier against the real Google endpoint.
func NewGoogleVerifier() *GoogleVerifier {
	return &GoogleVerifier{
		baseURL:    googleUserInfoURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// VerifyAccessToken fetches the user info for an access token. A non-200
// response means the token is invalid or expired.
func (v *GoogleVerifier) VerifyAccessToken(ctx context.Context, accessToken string) (*GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo returned status %d: %s", resp.StatusCode, string(body))
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if info.Email == "" {
		return nil, fmt.Errorf("google token does not contain email")
	}

	return &info, nil
}
