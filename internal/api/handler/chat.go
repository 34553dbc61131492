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

// ChatHandler handles chat turn and analysis endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat processes one conversation turn
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	resp, err := h.chatService.AppendTurn(r.Context(), userID.String(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			response.NotFound(w, "conversation not found")
		case errors.Is(err, domain.ErrConversationCompleted):
			response.Conflict(w, "conversation is completed")
		default:
			response.InternalError(w, "failed to process message")
		}
		return
	}

	response.OK(w, resp)
}

// Analyze produces a diagnostic report for a conversation
func (h *ChatHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	conversationID := chi.URLParam(r, "conversationID")
	if conversationID == "" {
		response.BadRequest(w, "missing conversation ID")
		return
	}

	report, err := h.chatService.Analyze(r.Context(), userID.String(), conversationID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			response.NotFound(w, "conversation not found")
		case errors.Is(err, domain.ErrNoEvidence):
			response.BadRequest(w, "no symptoms collected yet")
		default:
			response.InternalError(w, "analysis failed")
		}
		return
	}

	response.OK(w, report)
}
