package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/healprint/chat-service/internal/domain"
)

// ConversationService manages conversation lifecycle with a cache-aside
// read path and write-through invalidation on mutation.
type ConversationService struct {
	store     domain.ConversationStore
	cache     domain.SessionCache
	listLimit int
	now       func() time.Time
}

// NewConversationService creates a new conversation service
func NewConversationService(store domain.ConversationStore, cache domain.SessionCache, listLimit int) *ConversationService {
	if listLimit <= 0 {
		listLimit = 50
	}
	return &ConversationService{
		store:     store,
		cache:     cache,
		listLimit: listLimit,
		now:       time.Now,
	}
}

// GetConversation returns a conversation by ID, consulting the cache first.
func (s *ConversationService) GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	if conv, ok := s.cache.GetConversation(ctx, conversationID); ok {
		return conv, nil
	}

	conv, err := s.store.FindByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	if conv == nil {
		return nil, domain.ErrNotFound
	}

	// Best-effort populate; a failed set only costs the next read a miss.
	s.cache.SetConversation(ctx, conv)

	return conv, nil
}

// GetUserConversations returns recent conversation summaries for a user,
// most recently updated first.
func (s *ConversationService) GetUserConversations(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	if summaries, ok := s.cache.GetUserConversations(ctx, userID); ok {
		return summaries, nil
	}

	summaries, err := s.store.FindByUser(ctx, userID, s.listLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	if summaries == nil {
		summaries = []domain.ConversationSummary{}
	}

	s.cache.SetUserConversations(ctx, userID, summaries)

	return summaries, nil
}

// CreateConversation starts a new conversation for the user. Any still-active
// conversations the user has are marked completed first, so at most one
// conversation per user is ever accepting new turns.
func (s *ConversationService) CreateConversation(ctx context.Context, userID, title string) (*domain.Conversation, error) {
	activeIDs, err := s.store.ListActiveIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active conversations: %w", err)
	}
	for _, id := range activeIDs {
		if err := s.store.MarkCompleted(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to complete conversation %s: %w", id, err)
		}
		s.cache.InvalidateConversation(ctx, id)
	}

	now := s.now().UTC()
	conv := &domain.Conversation{
		ConversationID:    fmt.Sprintf("conv_%s_%d", userID, now.Unix()),
		UserID:            userID,
		Title:             title,
		Messages:          []domain.Message{},
		CreatedAt:         now,
		UpdatedAt:         now,
		AssessmentStage:   domain.StageInitial,
		SymptomsCollected: map[string]domain.SymptomEvidence{},
	}

	if err := s.store.Insert(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	s.cache.InvalidateUserConversations(ctx, userID)

	return conv, nil
}

// UpdateConversation appends a message and applies the assessment delta,
// then invalidates both cache keys touched by the write.
func (s *ConversationService) UpdateConversation(ctx context.Context, conversationID string, msg domain.Message, preview string, delta *domain.AssessmentDelta) error {
	modified, err := s.store.AppendMessage(ctx, conversationID, msg, preview, delta)
	if err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}
	if !modified {
		return domain.ErrNotFound
	}

	s.cache.InvalidateConversation(ctx, conversationID)
	s.invalidateOwnerList(ctx, conversationID)

	return nil
}

// DeleteConversation removes a conversation and invalidates its cache entries.
func (s *ConversationService) DeleteConversation(ctx context.Context, conversationID string) error {
	// Resolve the owner before the document disappears.
	userID, err := s.store.FindUserID(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("failed to resolve conversation owner: %w", err)
	}

	deleted, err := s.store.Delete(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}

	s.cache.InvalidateConversation(ctx, conversationID)
	if userID != "" {
		s.cache.InvalidateUserConversations(ctx, userID)
	}

	return nil
}

// MarkCompleted forces a conversation into its terminal stage.
func (s *ConversationService) MarkCompleted(ctx context.Context, conversationID string) error {
	if err := s.store.MarkCompleted(ctx, conversationID); err != nil {
		return fmt.Errorf("failed to complete conversation: %w", err)
	}

	s.cache.InvalidateConversation(ctx, conversationID)
	s.invalidateOwnerList(ctx, conversationID)

	return nil
}

// invalidateOwnerList evicts the owner's summary list. A failed owner lookup
// is logged rather than surfaced: the write already landed, and the stale
// list entry ages out with the TTL.
func (s *ConversationService) invalidateOwnerList(ctx context.Context, conversationID string) {
	userID, err := s.store.FindUserID(ctx, conversationID)
	if err != nil {
		log.Warn().Err(err).Str("conversation_id", conversationID).Msg("could not resolve owner for list invalidation")
		return
	}
	if userID != "" {
		s.cache.InvalidateUserConversations(ctx, userID)
	}
}
