package repositories

import (
	"context"

	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
)

// SupportTicketRepository defines support ticket operations
type SupportTicketRepository interface {
	Create(ctx context.Context, ticket *entities.SupportTicket) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.SupportTicket, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.TicketUpdate) (*entities.SupportTicket, error)
	List(ctx context.Context, filter entities.TicketFilter) ([]*entities.SupportTicket, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.SupportTicket, error)
	CreateReply(ctx context.Context, reply *entities.TicketReply) error
	ListReplies(ctx context.Context, ticketID uuid.UUID) ([]*entities.TicketReply, error)
}

// ChatRepository defines conversation and message operations
type ChatRepository interface {
	FindOrCreateConversation(ctx context.Context, patientID, providerID uuid.UUID) (*entities.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*entities.Conversation, error)
	ListConversations(ctx context.Context, filter entities.ConversationFilter) ([]*entities.Conversation, int64, error)
	CreateMessage(ctx context.Context, message *entities.Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, page, limit int) ([]*entities.Message, int64, error)
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error)
}
