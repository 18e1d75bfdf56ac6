package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	"smilecare.backend/internal/interfaces/http/response"
	"smilecare.backend/pkg/utils"
)

// ChatService handles patient and provider conversations
type ChatService interface {
	StartConversation(ctx context.Context, actor *entities.User, participantID uuid.UUID) (*entities.Conversation, error)
	ListConversations(ctx context.Context, actor *entities.User, params utils.PaginationParams) ([]*entities.Conversation, int64, error)
	ListMessages(ctx context.Context, actor *entities.User, conversationID uuid.UUID, params utils.PaginationParams) ([]*entities.Message, int64, error)
	SendMessage(ctx context.Context, actor *entities.User, conversationID uuid.UUID, input *entities.SendMessageInput) (*entities.Message, error)
	MarkRead(ctx context.Context, actor *entities.User, conversationID uuid.UUID) (int64, error)
}

// ChatHandler handles chat REST endpoints. Live events go through the websocket hub.
type ChatHandler struct {
	chatService ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// StartConversation opens or returns the conversation with another user
// POST /api/v1/chat/conversations
func (h *ChatHandler) StartConversation(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.StartConversationInput
	if !bindJSON(c, &input) {
		return
	}

	conversation, err := h.chatService.StartConversation(c.Request.Context(), actor, input.ParticipantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, conversation)
}

// ListConversations lists the current user's conversations
// GET /api/v1/chat/conversations
func (h *ChatHandler) ListConversations(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	params := paginationFrom(c)

	conversations, total, err := h.chatService.ListConversations(c.Request.Context(), actor, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondList(c, conversations, total, params)
}

// ListMessages lists the messages of a conversation, newest first
// GET /api/v1/chat/conversations/:id/messages
func (h *ChatHandler) ListMessages(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "conversation")
	if !ok {
		return
	}
	params := paginationFrom(c)

	messages, total, err := h.chatService.ListMessages(c.Request.Context(), actor, id, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondList(c, messages, total, params)
}

// SendMessage posts a message
// POST /api/v1/chat/conversations/:id/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "conversation")
	if !ok {
		return
	}
	var input entities.SendMessageInput
	if !bindJSON(c, &input) {
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Message sent successfully", message)
}

// MarkRead marks the counterpart's messages as read
// PUT /api/v1/chat/conversations/:id/read
func (h *ChatHandler) MarkRead(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "conversation")
	if !ok {
		return
	}

	n, err := h.chatService.MarkRead(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": n})
}
