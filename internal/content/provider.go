// Package content fetches meeting notes/transcripts from external sources.
package content

import (
	"context"

	"github.com/actionhub/action-hub/internal/models"
)

// Provider fetches the notes or transcript for a meeting. Returns an empty
// string when no matching content exists; errors are reserved for transport
// failures.
type Provider interface {
	FetchContent(ctx context.Context, user *models.User, title, date string) (string, error)
}

// NoContentSentinel is returned to the extraction step when every provider
// comes up empty.
const NoContentSentinel = "No content found for this meeting."

// Chain queries providers in order and returns the first non-empty content.
type Chain []Provider

// FetchFirst walks the chain. Provider errors are swallowed so one broken
// integration never blocks the fallback; an empty result means nothing was
// found anywhere.
func (c Chain) FetchFirst(ctx context.Context, user *models.User, title, date string) string {
	for _, p := range c {
		content, err := p.FetchContent(ctx, user, title, date)
		if err != nil {
			continue
		}
		if content != "" {
			return content
		}
	}
	return ""
}
