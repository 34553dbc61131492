// Package completion abstracts the external text-completion service and
// assembles the bounded conversation context handed to it.
package completion

import (
	"context"
	"errors"
)

// Provider failure classes. Callers map these to user-safe fallback text
// instead of propagating them.
var (
	// ErrUnauthorized marks credential failures (bad or revoked API key).
	ErrUnauthorized = errors.New("completion: invalid credentials")
	// ErrQuotaExhausted marks credit or rate-limit exhaustion.
	ErrQuotaExhausted = errors.New("completion: quota exhausted")
)

// Message is a role-tagged entry in the completion payload.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider defines the interface for text-completion backends
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete returns a single text completion for the instruction text
	// plus the ordered message sequence.
	Complete(ctx context.Context, instructions string, messages []Message, model string) (string, error)
}
