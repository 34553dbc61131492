package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/healprint/chat-service/internal/assessment"
	"github.com/healprint/chat-service/internal/completion"
	"github.com/healprint/chat-service/internal/domain"
)

const (
	titleMaxLen   = 30
	previewMaxLen = 100
)

// ChatService runs a single conversation turn end to end: load or create the
// conversation, extract symptom evidence, obtain an assistant reply, advance
// the assessment stage, and persist both messages.
type ChatService struct {
	conversations *ConversationService
	providers     *completion.Router
	historyWindow int
	now           func() time.Time
}

// NewChatService creates a new chat service
func NewChatService(conversations *ConversationService, providers *completion.Router, historyWindow int) *ChatService {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	return &ChatService{
		conversations: conversations,
		providers:     providers,
		historyWindow: historyWindow,
		now:           time.Now,
	}
}

// AppendTurn processes one user message and returns the assistant's reply
// along with the updated assessment state.
func (s *ChatService) AppendTurn(ctx context.Context, userID string, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	conv, err := s.resolveConversation(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	if conv.AssessmentStage.Terminal() {
		return nil, domain.ErrConversationCompleted
	}

	extracted := assessment.Extract(req.Message)
	merged := assessment.MergeEvidence(conv.SymptomsCollected, extracted)

	userMsg := domain.Message{
		MessageID: uuid.NewString(),
		Role:      domain.RoleUser,
		Content:   req.Message,
		Timestamp: s.now().UTC(),
	}
	userDelta := &domain.AssessmentDelta{Symptoms: extracted}
	if err := s.conversations.UpdateConversation(ctx, conv.ConversationID, userMsg, truncate(req.Message, previewMaxLen), userDelta); err != nil {
		return nil, err
	}

	// Mirror the write locally so the provider sees the new turn.
	conv.Messages = append(conv.Messages, userMsg)
	conv.SymptomsCollected = merged

	reply, stage, needsDiagnosis := s.generateReply(ctx, conv)

	assistantMsg := domain.Message{
		MessageID: uuid.NewString(),
		Role:      domain.RoleAssistant,
		Content:   reply,
		Timestamp: s.now().UTC(),
	}
	assistantDelta := &domain.AssessmentDelta{
		Stage:          &stage,
		NeedsDiagnosis: &needsDiagnosis,
	}
	if err := s.conversations.UpdateConversation(ctx, conv.ConversationID, assistantMsg, truncate(reply, previewMaxLen), assistantDelta); err != nil {
		return nil, err
	}

	return &domain.ChatResponse{
		Response:          reply,
		ConversationID:    conv.ConversationID,
		MessageID:         assistantMsg.MessageID,
		AssessmentStage:   stage,
		SymptomsCollected: merged,
		NeedsDiagnosis:    needsDiagnosis,
	}, nil
}

// Analyze produces a diagnostic report from the conversation's collected
// evidence. Requires at least one collected symptom.
func (s *ChatService) Analyze(ctx context.Context, userID, conversationID string) (*domain.DiagnosticReport, error) {
	conv, err := s.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if len(conv.SymptomsCollected) == 0 {
		return nil, domain.ErrNoEvidence
	}

	keys := make([]string, 0, len(conv.SymptomsCollected))
	for k := range conv.SymptomsCollected {
		keys = append(keys, k)
	}
	factors := assessment.FactorsForSymptoms(keys)

	provider, err := s.providers.GetProvider("")
	if err != nil {
		return nil, fmt.Errorf("no completion provider available: %w", err)
	}

	analysis, err := provider.Complete(ctx, completion.BuildInstructions(conv),
		[]completion.Message{{Role: string(domain.RoleUser), Content: completion.BuildAnalysisPrompt(conv, factors)}}, "")
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	return &domain.DiagnosticReport{
		ConversationID:   conv.ConversationID,
		Analysis:         analysis,
		SymptomsAnalyzed: conv.SymptomsCollected,
		HealthFactors:    factors,
		GeneratedAt:      s.now().UTC(),
	}, nil
}

// resolveConversation loads the addressed conversation or starts a new one
// when the request carries no id.
func (s *ChatService) resolveConversation(ctx context.Context, userID string, req *domain.ChatRequest) (*domain.Conversation, error) {
	if req.ConversationID != "" {
		conv, err := s.conversations.GetConversation(ctx, req.ConversationID)
		if err != nil {
			return nil, err
		}
		if conv.UserID != userID {
			return nil, domain.ErrNotFound
		}
		return conv, nil
	}
	return s.conversations.CreateConversation(ctx, userID, truncate(req.Message, titleMaxLen))
}

// generateReply obtains the assistant text and the resulting assessment
// state. Provider failures degrade to canned fallback text and leave the
// stage where it was.
func (s *ChatService) generateReply(ctx context.Context, conv *domain.Conversation) (string, domain.AssessmentStage, bool) {
	provider, err := s.providers.GetProvider("")
	if err != nil {
		log.Warn().Err(err).Msg("no completion provider, using keyword fallback")
		return completion.KeywordReply(lastUserMessage(conv)), conv.AssessmentStage, false
	}

	reply, err := provider.Complete(ctx, completion.BuildInstructions(conv), completion.BuildMessages(conv, s.historyWindow), "")
	if err != nil {
		log.Error().Err(err).
			Str("provider", provider.Name()).
			Str("conversation_id", conv.ConversationID).
			Msg("completion failed")
		return completion.FallbackFor(err), conv.AssessmentStage, false
	}

	// Stage is recomputed from evidence each turn; the assistant reply
	// being persisted counts toward the exchange threshold.
	stage := assessment.EvaluateStage(len(conv.SymptomsCollected), conv.AssistantMessageCount()+1)
	return reply, stage, assessment.NeedsDiagnosis(stage)
}

func lastUserMessage(conv *domain.Conversation) string {
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		if conv.Messages[i].Role == domain.RoleUser {
			return conv.Messages[i].Content
		}
	}
	return ""
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
