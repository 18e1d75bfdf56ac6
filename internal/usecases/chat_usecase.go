package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/domain/repositories"
	"smilecare.backend/pkg/utils"
)

// ChatNotifier pushes events to connected users
type ChatNotifier interface {
	Publish(userIDs []uuid.UUID, event entities.ChatEvent)
}

// ChatUsecase handles patient and provider conversations
type ChatUsecase struct {
	chatRepo repositories.ChatRepository
	userRepo repositories.UserRepository
	notifier ChatNotifier
}

// NewChatUsecase creates a new chat usecase
func NewChatUsecase(chatRepo repositories.ChatRepository, userRepo repositories.UserRepository, notifier ChatNotifier) *ChatUsecase {
	return &ChatUsecase{chatRepo: chatRepo, userRepo: userRepo, notifier: notifier}
}

// StartConversation finds or creates the conversation between the actor and a participant.
// One side must be a patient and the other a provider.
func (u *ChatUsecase) StartConversation(ctx context.Context, actor *entities.User, participantID uuid.UUID) (*entities.Conversation, error) {
	other, err := u.userRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Participant not found")
		}
		return nil, err
	}

	var patientID, providerID uuid.UUID
	switch {
	case actor.UserType == entities.UserRolePatient && other.UserType == entities.UserRoleProvider:
		patientID, providerID = actor.ID, other.ID
	case actor.UserType == entities.UserRoleProvider && other.UserType == entities.UserRolePatient:
		patientID, providerID = other.ID, actor.ID
	default:
		return nil, domainerrors.BadRequest("Conversations are between a patient and a provider")
	}

	return u.chatRepo.FindOrCreateConversation(ctx, patientID, providerID)
}

// ListConversations returns the actor's conversations, most recent activity first
func (u *ChatUsecase) ListConversations(ctx context.Context, actor *entities.User, params utils.PaginationParams) ([]*entities.Conversation, int64, error) {
	return u.chatRepo.ListConversations(ctx, entities.ConversationFilter{PaginationParams: params, UserID: actor.ID})
}

// ListMessages returns a page of messages, newest first
func (u *ChatUsecase) ListMessages(ctx context.Context, actor *entities.User, conversationID uuid.UUID, params utils.PaginationParams) ([]*entities.Message, int64, error) {
	if _, err := u.conversationFor(ctx, actor, conversationID); err != nil {
		return nil, 0, err
	}
	return u.chatRepo.ListMessages(ctx, conversationID, params.Page, params.Limit)
}

// SendMessage stores a message and pushes it to both participants
func (u *ChatUsecase) SendMessage(ctx context.Context, actor *entities.User, conversationID uuid.UUID, input *entities.SendMessageInput) (*entities.Message, error) {
	conversation, err := u.conversationFor(ctx, actor, conversationID)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, domainerrors.BadRequest("Message body is required")
	}

	message := &entities.Message{
		ConversationID: conversationID,
		SenderID:       actor.ID,
		Body:           body,
	}
	if err := u.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	u.publish(conversation, entities.ChatEvent{Type: entities.ChatEventMessageCreated, Data: message})
	return message, nil
}

// MarkRead marks the counterpart's messages as read by the actor
func (u *ChatUsecase) MarkRead(ctx context.Context, actor *entities.User, conversationID uuid.UUID) (int64, error) {
	conversation, err := u.conversationFor(ctx, actor, conversationID)
	if err != nil {
		return 0, err
	}
	n, err := u.chatRepo.MarkRead(ctx, conversationID, actor.ID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		u.publish(conversation, entities.ChatEvent{
			Type: entities.ChatEventMessagesRead,
			Data: map[string]interface{}{"conversationId": conversationID, "readerId": actor.ID},
		})
	}
	return n, nil
}

func (u *ChatUsecase) conversationFor(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.Conversation, error) {
	conversation, err := u.chatRepo.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(actor.ID) {
		return nil, domainerrors.ErrForbidden
	}
	return conversation, nil
}

func (u *ChatUsecase) publish(conversation *entities.Conversation, event entities.ChatEvent) {
	if u.notifier == nil {
		return
	}
	u.notifier.Publish([]uuid.UUID{conversation.PatientID, conversation.ProviderID}, event)
}
