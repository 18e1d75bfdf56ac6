package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"smilecare.backend/pkg/utils"
)

// Conversation is a one to one chat between a patient and a provider
type Conversation struct {
	ID            uuid.UUID `json:"id"`
	PatientID     uuid.UUID `json:"patientId"`
	ProviderID    uuid.UUID `json:"providerId"`
	LastMessageAt null.Time `json:"lastMessageAt"`
	CreatedAt     time.Time `json:"createdAt"`

	PatientName  string `json:"patientName,omitempty"`
	ProviderName string `json:"providerName,omitempty"`
	UnreadCount  int    `json:"unreadCount"`
}

// HasParticipant reports whether the user takes part in the conversation
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.PatientID == userID || c.ProviderID == userID
}

// Counterpart returns the other participant
func (c *Conversation) Counterpart(userID uuid.UUID) uuid.UUID {
	if c.PatientID == userID {
		return c.ProviderID
	}
	return c.PatientID
}

// Message is a chat message
type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversationId"`
	SenderID       uuid.UUID `json:"senderId"`
	Body           string    `json:"body"`
	ReadAt         null.Time `json:"readAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

// StartConversationInput opens a chat with another user
type StartConversationInput struct {
	ParticipantID uuid.UUID `json:"participantId" binding:"required"`
}

// SendMessageInput represents a new chat message
type SendMessageInput struct {
	Body string `json:"body" binding:"required,max=4000"`
}

// ConversationFilter holds list filters for conversations
type ConversationFilter struct {
	utils.PaginationParams
	UserID uuid.UUID
}

// Chat event types pushed to connected clients
const (
	ChatEventMessageCreated = "message.created"
	ChatEventMessagesRead   = "messages.read"
)

// ChatEvent is a realtime notification for chat participants
type ChatEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
