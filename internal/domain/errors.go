package domain

import "errors"

// ErrNotFound marks an absent conversation or user. It is a normal,
// expected outcome, not a failure.
var ErrNotFound = errors.New("not found")

// ErrNoEvidence is returned when a diagnostic analysis is requested for a
// conversation with no collected symptoms.
var ErrNoEvidence = errors.New("no symptoms collected for analysis")

// ErrConversationCompleted rejects turns addressed to a conversation that
// already reached its terminal stage.
var ErrConversationCompleted = errors.New("conversation is completed")
