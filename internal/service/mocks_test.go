package service

import (
	"context"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/healprint/chat-service/internal/completion"
	"github.com/healprint/chat-service/internal/domain"
)

// MockConversationStore is a testify mock for domain.ConversationStore.
type MockConversationStore struct {
	mock.Mock
}

func (m *MockConversationStore) Insert(ctx context.Context, conv *domain.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

func (m *MockConversationStore) FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationStore) FindByUser(ctx context.Context, userID string, limit int) ([]domain.ConversationSummary, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConversationSummary), args.Error(1)
}

func (m *MockConversationStore) AppendMessage(ctx context.Context, conversationID string, msg domain.Message, preview string, delta *domain.AssessmentDelta) (bool, error) {
	args := m.Called(ctx, conversationID, msg, preview, delta)
	return args.Bool(0), args.Error(1)
}

func (m *MockConversationStore) Delete(ctx context.Context, conversationID string) (bool, error) {
	args := m.Called(ctx, conversationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockConversationStore) FindUserID(ctx context.Context, conversationID string) (string, error) {
	args := m.Called(ctx, conversationID)
	return args.String(0), args.Error(1)
}

func (m *MockConversationStore) ListActiveIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockConversationStore) MarkCompleted(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

// MockUserStore is a testify mock for domain.UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Insert(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockProvider is a testify mock for completion.Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string         { return "mock" }
func (m *MockProvider) DefaultModel() string { return "mock-model" }
func (m *MockProvider) IsConfigured() bool   { return true }

func (m *MockProvider) Complete(ctx context.Context, instructions string, messages []completion.Message, model string) (string, error) {
	args := m.Called(ctx, instructions, messages, model)
	return args.String(0), args.Error(1)
}

// fakeCache is an in-memory domain.SessionCache that counts operations, so
// tests can assert on hit/invalidation behavior.
type fakeCache struct {
	mu            sync.Mutex
	conversations map[string]*domain.Conversation
	lists         map[string][]domain.ConversationSummary

	convHits      int
	convMisses    int
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		conversations: make(map[string]*domain.Conversation),
		lists:         make(map[string][]domain.ConversationSummary),
	}
}

func (f *fakeCache) GetConversation(_ context.Context, id string) (*domain.Conversation, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[id]
	if ok {
		f.convHits++
	} else {
		f.convMisses++
	}
	return conv, ok
}

func (f *fakeCache) SetConversation(_ context.Context, conv *domain.Conversation) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conversations[conv.ConversationID] = conv
	return true
}

func (f *fakeCache) InvalidateConversation(_ context.Context, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.conversations, id)
	f.invalidations++
	return true
}

func (f *fakeCache) GetUserConversations(_ context.Context, userID string) ([]domain.ConversationSummary, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summaries, ok := f.lists[userID]
	return summaries, ok
}

func (f *fakeCache) SetUserConversations(_ context.Context, userID string, summaries []domain.ConversationSummary) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[userID] = summaries
	return true
}

func (f *fakeCache) InvalidateUserConversations(_ context.Context, userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lists, userID)
	f.invalidations++
	return true
}

// fakeStore is an in-memory domain.ConversationStore for exercising full
// chat flows without mock choreography.
type fakeStore struct {
	mu            sync.Mutex
	conversations map[string]*domain.Conversation
}

func newFakeStore() *fakeStore {
	return &fakeStore{conversations: make(map[string]*domain.Conversation)}
}

func (f *fakeStore) Insert(_ context.Context, conv *domain.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *conv
	f.conversations[conv.ConversationID] = &cp
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[id]
	if !ok {
		return nil, nil
	}
	cp := *conv
	return &cp, nil
}

func (f *fakeStore) FindByUser(_ context.Context, userID string, limit int) ([]domain.ConversationSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ConversationSummary
	for _, c := range f.conversations {
		if c.UserID != userID {
			continue
		}
		out = append(out, domain.ConversationSummary{
			ConversationID: c.ConversationID,
			Title:          c.Title,
			LastMessage:    c.LastMessage,
			MessageCount:   len(c.Messages),
			CreatedAt:      c.CreatedAt,
			UpdatedAt:      c.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) AppendMessage(_ context.Context, id string, msg domain.Message, preview string, delta *domain.AssessmentDelta) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[id]
	if !ok {
		return false, nil
	}
	conv.Messages = append(conv.Messages, msg)
	conv.LastMessage = preview
	conv.UpdatedAt = msg.Timestamp
	if delta != nil {
		if delta.Stage != nil {
			conv.AssessmentStage = *delta.Stage
		}
		if delta.NeedsDiagnosis != nil {
			conv.NeedsDiagnosis = *delta.NeedsDiagnosis
		}
		if conv.SymptomsCollected == nil {
			conv.SymptomsCollected = make(map[string]domain.SymptomEvidence)
		}
		for k, v := range delta.Symptoms {
			conv.SymptomsCollected[k] = v
		}
	}
	return true, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.conversations[id]; !ok {
		return false, nil
	}
	delete(f.conversations, id)
	return true, nil
}

func (f *fakeStore) FindUserID(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[id]
	if !ok {
		return "", nil
	}
	return conv.UserID, nil
}

func (f *fakeStore) ListActiveIDs(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, c := range f.conversations {
		if c.UserID == userID && !c.AssessmentStage.Terminal() {
			ids = append(ids, c.ConversationID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeStore) MarkCompleted(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if conv, ok := f.conversations[id]; ok {
		conv.AssessmentStage = domain.StageCompleted
		conv.NeedsDiagnosis = false
	}
	return nil
}
