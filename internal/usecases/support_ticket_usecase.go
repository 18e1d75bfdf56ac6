package usecases

import (
	"context"

	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/domain/repositories"
)

// SupportTicketUsecase handles help desk tickets and replies
type SupportTicketUsecase struct {
	ticketRepo repositories.SupportTicketRepository
}

// NewSupportTicketUsecase creates a new support ticket usecase
func NewSupportTicketUsecase(ticketRepo repositories.SupportTicketRepository) *SupportTicketUsecase {
	return &SupportTicketUsecase{ticketRepo: ticketRepo}
}

// List returns all tickets for admins and the caller's own tickets otherwise
func (u *SupportTicketUsecase) List(ctx context.Context, actor *entities.User, filter entities.TicketFilter) ([]*entities.SupportTicket, int64, error) {
	if !isAdmin(actor) {
		id := actor.ID
		filter.UserID = &id
	}
	return u.ticketRepo.List(ctx, filter)
}

func (u *SupportTicketUsecase) GetByID(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.SupportTicket, error) {
	ticket, err := u.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin(actor) && ticket.UserID != actor.ID {
		return nil, domainerrors.ErrForbidden
	}
	return ticket, nil
}

func (u *SupportTicketUsecase) Create(ctx context.Context, actor *entities.User, input *entities.CreateTicketInput) (*entities.SupportTicket, error) {
	priority := input.Priority
	if priority == "" {
		priority = entities.TicketPriorityMedium
	}
	category := input.Category
	if category == "" {
		category = "general"
	}
	ticket := &entities.SupportTicket{
		UserID:      actor.ID,
		Subject:     input.Subject,
		Description: input.Description,
		Category:    category,
		Priority:    priority,
		Status:      entities.TicketOpen,
	}
	if err := u.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}
	return u.ticketRepo.GetByID(ctx, ticket.ID)
}

// Update edits a ticket. Owners may edit the text and close it; assignment and other statuses are staff only.
func (u *SupportTicketUsecase) Update(ctx context.Context, actor *entities.User, id uuid.UUID, input *entities.TicketUpdate) (*entities.SupportTicket, error) {
	if _, err := u.GetByID(ctx, actor, id); err != nil {
		return nil, err
	}
	if !isAdmin(actor) {
		if input.AssignedTo != nil {
			return nil, domainerrors.Forbidden("Only staff can assign tickets")
		}
		if input.Status != nil && *input.Status != entities.TicketClosed {
			return nil, domainerrors.Forbidden("Only staff can change the ticket status")
		}
	}
	return u.ticketRepo.Update(ctx, id, input)
}

func (u *SupportTicketUsecase) Delete(ctx context.Context, id uuid.UUID) (*entities.SupportTicket, error) {
	return u.ticketRepo.Delete(ctx, id)
}

// Reply adds a message to an open ticket. Replies by admins are marked as staff replies.
func (u *SupportTicketUsecase) Reply(ctx context.Context, actor *entities.User, ticketID uuid.UUID, input *entities.CreateReplyInput) (*entities.TicketReply, error) {
	if _, err := u.GetByID(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	reply := &entities.TicketReply{
		TicketID: ticketID,
		UserID:   actor.ID,
		Message:  input.Message,
		IsStaff:  isAdmin(actor),
	}
	if err := u.ticketRepo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}
	reply.UserName = actor.FullName()
	return reply, nil
}

// ListReplies returns the conversation of a ticket, oldest first
func (u *SupportTicketUsecase) ListReplies(ctx context.Context, actor *entities.User, ticketID uuid.UUID) ([]*entities.TicketReply, error) {
	if _, err := u.GetByID(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	return u.ticketRepo.ListReplies(ctx, ticketID)
}
