package content

import (
	"context"
	"strings"

	"github.com/actionhub/action-hub/internal/models"
)

// GranolaProvider is a stub transcript source used as the secondary fallback
// in the provider chain. It returns canned transcripts for sales-style
// meetings so the extraction flow can be exercised without a live account.
type GranolaProvider struct{}

// NewGranolaProvider creates the stub provider.
func NewGranolaProvider() *GranolaProvider {
	return &GranolaProvider{}
}

// FetchContent returns a canned transcript when the meeting looks like a
// client call, nothing otherwise.
func (g *GranolaProvider) FetchContent(ctx context.Context, user *models.User, title, date string) (string, error) {
	if !strings.Contains(title, "Client") && !strings.Contains(title, "Sales") {
		return "", nil
	}

	return `Granola Transcript: Sales Call

Summary:
The client is interested in the premium plan but concerned about the price.

Next Steps:
- Send a follow-up email with the pricing deck.
- Schedule a demo for the technical team next Tuesday.
- Add the client to the CRM.`, nil
}
