package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/healprint/chat-service/internal/api/middleware"
	"github.com/healprint/chat-service/internal/api/response"
	"github.com/healprint/chat-service/internal/domain"
	"github.com/healprint/chat-service/internal/service"
)

// ConversationHandler handles conversation listing and lifecycle endpoints
type ConversationHandler struct {
	conversations *service.ConversationService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversations *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// Create starts a new conversation, completing any still-active one first
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input struct {
		Title string `json:"title" validate:"max=100"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}
	if input.Title == "" {
		input.Title = "New Conversation"
	}

	conv, err := h.conversations.CreateConversation(r.Context(), userID.String(), input.Title)
	if err != nil {
		response.InternalError(w, "failed to create conversation")
		return
	}

	response.Created(w, conv)
}

// List returns the authenticated user's conversation summaries
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	summaries, err := h.conversations.GetUserConversations(r.Context(), userID.String())
	if err != nil {
		response.InternalError(w, "failed to list conversations")
		return
	}

	response.OK(w, map[string]any{
		"conversations": summaries,
		"count":         len(summaries),
	})
}

// Get returns a single conversation with its full message history
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.ownedConversation(w, r)
	if !ok {
		return
	}

	response.OK(w, conv)
}

// Delete removes a conversation
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.ownedConversation(w, r)
	if !ok {
		return
	}

	if err := h.conversations.DeleteConversation(r.Context(), conv.ConversationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "conversation not found")
			return
		}
		response.InternalError(w, "failed to delete conversation")
		return
	}

	response.NoContent(w)
}

// Complete marks a conversation as completed
func (h *ConversationHandler) Complete(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.ownedConversation(w, r)
	if !ok {
		return
	}

	if err := h.conversations.MarkCompleted(r.Context(), conv.ConversationID); err != nil {
		response.InternalError(w, "failed to complete conversation")
		return
	}

	response.OK(w, map[string]string{
		"conversation_id": conv.ConversationID,
		"status":          "completed",
	})
}

// ownedConversation loads the addressed conversation and enforces that it
// belongs to the authenticated user. Writes the error response itself.
func (h *ConversationHandler) ownedConversation(w http.ResponseWriter, r *http.Request) (*domain.Conversation, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return nil, false
	}

	conversationID := chi.URLParam(r, "conversationID")
	if conversationID == "" {
		response.BadRequest(w, "missing conversation ID")
		return nil, false
	}

	conv, err := h.conversations.GetConversation(r.Context(), conversationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "conversation not found")
			return nil, false
		}
		response.InternalError(w, "failed to load conversation")
		return nil, false
	}
	if conv.UserID != userID.String() {
		response.NotFound(w, "conversation not found")
		return nil, false
	}

	return conv, true
}
