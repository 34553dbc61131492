package completion

import (
	"sort"
	"strings"

	"github.com/healprint/chat-service/internal/domain"
)

// Exchange classifications for the most recent user turn.
const (
	contextRespondingToOptions  = "User is responding to specific options/choices you provided"
	contextRespondingToQuestion = "User is responding to questions you asked"
	contextAdditionalInfo       = "User is providing additional information"
)

// Conversation-length buckets.
const (
	earlyStageMaxMessages = 2
	midStageMaxMessages   = 6
)

// BuildContext synthesizes the ordered, bounded context summary handed to
// the completion provider: current stage, collected evidence, a
// classification of the latest exchange, and a coarse length bucket.
func BuildContext(conv *domain.Conversation) string {
	parts := []string{
		"Current Assessment Stage: " + string(conv.AssessmentStage),
	}

	if len(conv.SymptomsCollected) > 0 {
		keys := make([]string, 0, len(conv.SymptomsCollected))
		for k := range conv.SymptomsCollected {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts = append(parts, "Identified Symptoms: "+strings.Join(keys, ", "))
	}

	if c := classifyLastExchange(conv.Messages); c != "" {
		parts = append(parts, "Previous Context: "+c)
	}

	switch n := len(conv.Messages); {
	case n <= earlyStageMaxMessages:
		parts = append(parts, "Conversation Status: Early stage - focus on gathering basic information")
	case n <= midStageMaxMessages:
		parts = append(parts, "Conversation Status: Mid-stage - dive deeper into specific symptoms")
	default:
		parts = append(parts, "Conversation Status: Advanced stage - ready for analysis or recommendations")
	}

	return strings.Join(parts, " | ")
}

// classifyLastExchange inspects the most recent assistant and user messages
// to characterize what the user is replying to. Returns "" when the
// conversation has no complete exchange yet.
func classifyLastExchange(messages []domain.Message) string {
	if len(messages) < 2 {
		return ""
	}

	var lastAssistant, lastUser string
	for i := len(messages) - 1; i >= 0; i-- {
		switch messages[i].Role {
		case domain.RoleAssistant:
			if lastAssistant == "" {
				lastAssistant = messages[i].Content
			}
		case domain.RoleUser:
			if lastUser == "" {
				lastUser = messages[i].Content
			}
		}
	}
	if lastAssistant == "" || lastUser == "" {
		return ""
	}

	if presentsNumberedOptions(lastAssistant) {
		return contextRespondingToOptions
	}
	if strings.Contains(lastAssistant, "?") {
		return contextRespondingToQuestion
	}
	return contextAdditionalInfo
}

// presentsNumberedOptions heuristically detects an assistant message that
// offered a numbered or labeled list of choices.
func presentsNumberedOptions(s string) bool {
	hasDigit := strings.ContainsAny(s, "0123456789")
	return hasDigit && (strings.Contains(s, ".") || strings.Contains(s, ":"))
}

// BuildMessages returns the last `window` messages of the conversation in
// provider wire form. The synthesizer never calls the provider itself.
func BuildMessages(conv *domain.Conversation, window int) []Message {
	msgs := conv.Messages
	if window > 0 && len(msgs) > window {
		msgs = msgs[len(msgs)-window:]
	}

	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = Message{
			Role:    string(m.Role),
			Content: m.Content,
		}
	}
	return out
}
