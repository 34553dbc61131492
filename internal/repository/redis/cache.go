package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/healprint/chat-service/internal/domain"
)

const (
	conversationKeyPrefix      = "conversation:"
	userConversationsKeyPrefix = "user_conversations:"

	defaultTTL       = 24 * time.Hour
	defaultOpTimeout = 500 * time.Millisecond
)

// ConversationCache implements domain.SessionCache on Redis. Entries are
// disposable JSON projections with a fixed TTL; the document store remains
// the source of truth. Every operation degrades to a miss/no-op when the
// backend errors or when the cache was constructed disabled (nil client) —
// callers must treat that as a normal fallback path.
type ConversationCache struct {
	client    *Client
	ttl       time.Duration
	opTimeout time.Duration
}

// NewConversationCache creates a conversation cache. A nil client yields a
// disabled cache whose operations all report miss/failure.
func NewConversationCache(client *Client, ttl, opTimeout time.Duration) *ConversationCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	return &ConversationCache{client: client, ttl: ttl, opTimeout: opTimeout}
}

// Enabled reports whether a cache backend is attached.
func (c *ConversationCache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetConversation retrieves a cached conversation snapshot.
func (c *ConversationCache) GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, bool) {
	key := conversationKeyPrefix + conversationID

	data, ok := c.get(ctx, key)
	if !ok {
		return nil, false
	}

	var conv domain.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache entry corrupt, treating as miss")
		return nil, false
	}
	return &conv, true
}

// SetConversation caches a conversation snapshot, best-effort.
func (c *ConversationCache) SetConversation(ctx context.Context, conv *domain.Conversation) bool {
	return c.set(ctx, conversationKeyPrefix+conv.ConversationID, conv)
}

// InvalidateConversation removes a conversation snapshot from the cache.
func (c *ConversationCache) InvalidateConversation(ctx context.Context, conversationID string) bool {
	return c.del(ctx, conversationKeyPrefix+conversationID)
}

// GetUserConversations retrieves a cached conversation-list projection.
func (c *ConversationCache) GetUserConversations(ctx context.Context, userID string) ([]domain.ConversationSummary, bool) {
	key := userConversationsKeyPrefix + userID

	data, ok := c.get(ctx, key)
	if !ok {
		return nil, false
	}

	var summaries []domain.ConversationSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache entry corrupt, treating as miss")
		return nil, false
	}
	return summaries, true
}

// SetUserConversations caches a user's conversation-list projection.
func (c *ConversationCache) SetUserConversations(ctx context.Context, userID string, summaries []domain.ConversationSummary) bool {
	return c.set(ctx, userConversationsKeyPrefix+userID, summaries)
}

// InvalidateUserConversations removes a user's conversation-list projection.
func (c *ConversationCache) InvalidateUserConversations(ctx context.Context, userID string) bool {
	return c.del(ctx, userConversationsKeyPrefix+userID)
}

func (c *ConversationCache) get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	data, err := c.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Error().Err(err).Str("key", key).Msg("cache get degraded to miss")
		}
		return nil, false
	}
	return data, true
}

func (c *ConversationCache) set(ctx context.Context, key string, value any) bool {
	if !c.Enabled() {
		return false
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache set skipped, marshal failed")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	if err := c.client.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache set degraded to no-op")
		return false
	}
	return true
}

func (c *ConversationCache) del(ctx context.Context, key string) bool {
	if !c.Enabled() {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	if err := c.client.rdb.Del(ctx, key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache invalidation degraded to no-op")
		return false
	}
	return true
}
