// Package actions executes action items against third-party services and
// routes each category to its executor.
package actions

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors the HTTP layer maps onto status codes.
var (
	// ErrNotConfigured: a server-side integration is missing configuration
	ErrNotConfigured = errors.New("integration not configured")
	// ErrMissingCredential: the caller did not supply a required credential
	ErrMissingCredential = errors.New("credential required")
	// ErrAuthFailed: the upstream service rejected the credential
	ErrAuthFailed = errors.New("upstream authentication failed")
)

// Payload is the normalized input every executor receives. Fields carries
// caller-supplied parameters merged over item-derived defaults; callers win.
type Payload struct {
	Description  string
	MeetingTitle string
	Participants []string
	MeetingStart time.Time
	Fields       map[string]string
}

// Field returns a named field, or fallback when absent or empty.
func (p Payload) Field(key, fallback string) string {
	if v, ok := p.Fields[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Result is the normalized success payload of one execution.
type Result struct {
	Status      string            `json:"status"`
	Message     string            `json:"message"`
	ExecutionID string            `json:"execution_id"`
	Link        string            `json:"link,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
}

// Executor performs exactly one category's external side effect. The token
// is the credential the dispatcher selected for this category; executors
// that need none ignore it.
type Executor interface {
	Execute(ctx context.Context, payload Payload, token string) (*Result, error)
}
