package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/infrastructure/models"
	"smilecare.backend/pkg/utils"
)

const conversationConflictMessage = "Conversation already exists"

// ChatRepository implements conversation and message operations
type ChatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// FindOrCreateConversation returns the conversation of the pair, creating it on first contact
func (r *ChatRepository) FindOrCreateConversation(ctx context.Context, patientID, providerID uuid.UUID) (*entities.Conversation, error) {
	existing, err := r.conversationByPair(ctx, patientID, providerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	m := &models.Conversation{
		ID:         utils.GenerateUUIDv7(),
		PatientID:  patientID,
		ProviderID: providerID,
		CreatedAt:  time.Now(),
	}
	if err := conn(ctx, r.db).Create(m).Error; err != nil {
		// lost a race against a concurrent create for the same pair
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.conversationByPair(ctx, patientID, providerID)
		}
		return nil, translateError(err, conversationConflictMessage)
	}
	return r.GetConversation(ctx, m.ID)
}

// GetConversation gets a conversation with participant names
func (r *ChatRepository) GetConversation(ctx context.Context, id uuid.UUID) (*entities.Conversation, error) {
	return r.firstConversation(ctx, "conversations.id = ?", id)
}

// ListConversations lists the conversations of a user, most recently active first
func (r *ChatRepository) ListConversations(ctx context.Context, filter entities.ConversationFilter) ([]*entities.Conversation, int64, error) {
	query := conn(ctx, r.db).Model(&models.Conversation{}).
		Where("conversations.patient_id = ? OR conversations.provider_id = ?", filter.UserID, filter.UserID)

	var ms []models.Conversation
	total, err := listPage(query, filter.PaginationParams, &ms, func(q *gorm.DB) *gorm.DB {
		return joinParties(q, "conversations").
			Select(partyColumns("conversations")+", "+
				"(SELECT COUNT(*) FROM messages m WHERE m.conversation_id = conversations.id "+
				"AND m.sender_id <> ? AND m.read_at IS NULL) AS unread_count", filter.UserID).
			Order("COALESCE(conversations.last_message_at, conversations.created_at) DESC")
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Conversation, 0, len(ms))
	for i := range ms {
		out = append(out, toConversationEntity(&ms[i]))
	}
	return out, total, nil
}

// CreateMessage stores a message and bumps the conversation activity time
func (r *ChatRepository) CreateMessage(ctx context.Context, msg *entities.Message) error {
	now := time.Now()
	if msg.ID == uuid.Nil {
		msg.ID = utils.GenerateUUIDv7()
	}
	msg.CreatedAt = now

	db := conn(ctx, r.db)
	result := db.Model(&models.Conversation{}).Where("id = ?", msg.ConversationID).Update("last_message_at", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}

	m := &models.Message{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Body:           msg.Body,
		CreatedAt:      now,
	}
	return translateError(db.Omit("Conversation").Create(m).Error, conversationConflictMessage)
}

// ListMessages lists one page of messages, newest first
func (r *ChatRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, page, limit int) ([]*entities.Message, int64, error) {
	query := conn(ctx, r.db).Model(&models.Message{}).Where("messages.conversation_id = ?", conversationID)

	var ms []models.Message
	total, err := listPage(query, utils.PaginationParams{Page: page, Limit: limit}, &ms, func(q *gorm.DB) *gorm.DB {
		return q.Order("messages.created_at DESC").Order("messages.id DESC")
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Message, 0, len(ms))
	for i := range ms {
		m := &ms[i]
		out = append(out, &entities.Message{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			SenderID:       m.SenderID,
			Body:           m.Body,
			ReadAt:         null.TimeFromPtr(m.ReadAt),
			CreatedAt:      m.CreatedAt,
		})
	}
	return out, total, nil
}

// MarkRead stamps read_at on every unread message the reader received
func (r *ChatRepository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Update("read_at", time.Now())
	return result.RowsAffected, result.Error
}

func (r *ChatRepository) conversationByPair(ctx context.Context, patientID, providerID uuid.UUID) (*entities.Conversation, error) {
	return r.firstConversation(ctx, "conversations.patient_id = ? AND conversations.provider_id = ?", patientID, providerID)
}

func (r *ChatRepository) firstConversation(ctx context.Context, where string, args ...interface{}) (*entities.Conversation, error) {
	var m models.Conversation
	err := withParties(conn(ctx, r.db).Model(&models.Conversation{}), "conversations").
		Where(where, args...).
		Take(&m).Error
	if err != nil {
		return nil, translateError(err, conversationConflictMessage)
	}
	return toConversationEntity(&m), nil
}

func toConversationEntity(m *models.Conversation) *entities.Conversation {
	return &entities.Conversation{
		ID:            m.ID,
		PatientID:     m.PatientID,
		ProviderID:    m.ProviderID,
		LastMessageAt: null.TimeFromPtr(m.LastMessageAt),
		CreatedAt:     m.CreatedAt,
		PatientName:   fullName(m.PatientFirstName, m.PatientLastName),
		ProviderName:  fullName(m.ProviderFirstName, m.ProviderLastName),
		UnreadCount:   m.UnreadCount,
	}
}
