package domain

import (
	"context"
	"time"
)

// AssessmentStage is the discrete phase of a health-assessment conversation.
type AssessmentStage string

const (
	StageInitial         AssessmentStage = "initial"
	StageGatheringInfo   AssessmentStage = "gathering_info"
	StageDiagnosticReady AssessmentStage = "diagnostic_ready"
	StageCompleted       AssessmentStage = "completed"
)

// Terminal reports whether the stage admits no further transitions.
func (s AssessmentStage) Terminal() bool {
	return s == StageCompleted
}

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is a single chat message. Immutable once appended.
type Message struct {
	MessageID string      `bson:"message_id,omitempty" json:"message_id,omitempty"`
	Role      MessageRole `bson:"role" json:"role"`
	Content   string      `bson:"content" json:"content"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
}

// SymptomEvidence records that a taxonomy symptom was mentioned by the user.
type SymptomEvidence struct {
	Category  string `bson:"category" json:"category"`
	Mentioned bool   `bson:"mentioned" json:"mentioned"`
}

// Conversation is the authoritative record of a health-assessment thread.
// The document store owns it; cached copies are disposable projections.
type Conversation struct {
	ConversationID    string                     `bson:"conversation_id" json:"conversation_id"`
	UserID            string                     `bson:"user_id" json:"user_id"`
	Title             string                     `bson:"title" json:"title"`
	Messages          []Message                  `bson:"messages" json:"messages"`
	LastMessage       string                     `bson:"last_message" json:"last_message"`
	CreatedAt         time.Time                  `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time                  `bson:"updated_at" json:"updated_at"`
	AssessmentStage   AssessmentStage            `bson:"assessment_stage" json:"assessment_stage"`
	SymptomsCollected map[string]SymptomEvidence `bson:"symptoms_collected" json:"symptoms_collected"`
	NeedsDiagnosis    bool                       `bson:"needs_diagnosis" json:"needs_diagnosis"`
}

// AssistantMessageCount returns the number of assistant-authored messages.
func (c *Conversation) AssistantMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Role == RoleAssistant {
			n++
		}
	}
	return n
}

// ConversationSummary is the read-optimized sidebar projection of a
// conversation. Derived, never independently mutated.
type ConversationSummary struct {
	ConversationID string    `bson:"conversation_id" json:"conversation_id"`
	Title          string    `bson:"title" json:"title"`
	LastMessage    string    `bson:"last_message" json:"last_message"`
	MessageCount   int       `bson:"message_count" json:"message_count"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// AssessmentDelta carries assessment fields merged into a conversation
// alongside a message append. Nil pointers leave the stored value untouched;
// Symptoms are merged per key, never removed.
type AssessmentDelta struct {
	Stage          *AssessmentStage
	Symptoms       map[string]SymptomEvidence
	NeedsDiagnosis *bool
}

// ConversationStore defines the document-store contract for conversations.
type ConversationStore interface {
	// Insert stores a new conversation document.
	Insert(ctx context.Context, conv *Conversation) error

	// FindByID returns the conversation or (nil, nil) when absent.
	FindByID(ctx context.Context, conversationID string) (*Conversation, error)

	// FindByUser returns summaries sorted by updated_at descending,
	// capped at limit.
	FindByUser(ctx context.Context, userID string, limit int) ([]ConversationSummary, error)

	// AppendMessage pushes msg onto the message sequence and applies the
	// preview, updated_at and any assessment delta in one modification.
	// Returns false when no document matched.
	AppendMessage(ctx context.Context, conversationID string, msg Message, preview string, delta *AssessmentDelta) (bool, error)

	// Delete removes the conversation, reporting whether one was deleted.
	Delete(ctx context.Context, conversationID string) (bool, error)

	// FindUserID returns the owning user id, or "" when the conversation
	// does not exist.
	FindUserID(ctx context.Context, conversationID string) (string, error)

	// ListActiveIDs returns ids of the user's non-terminal conversations.
	ListActiveIDs(ctx context.Context, userID string) ([]string, error)

	// MarkCompleted force-enters the terminal stage.
	MarkCompleted(ctx context.Context, conversationID string) error
}

// SessionCache holds disposable conversation projections with a TTL. Every
// operation degrades to a miss/no-op when the backend is unreachable or
// disabled; implementations never surface errors to callers.
type SessionCache interface {
	GetConversation(ctx context.Context, conversationID string) (*Conversation, bool)
	SetConversation(ctx context.Context, conv *Conversation) bool
	InvalidateConversation(ctx context.Context, conversationID string) bool

	GetUserConversations(ctx context.Context, userID string) ([]ConversationSummary, bool)
	SetUserConversations(ctx context.Context, userID string, summaries []ConversationSummary) bool
	InvalidateUserConversations(ctx context.Context, userID string) bool
}
