package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/infrastructure/models"
	"smilecare.backend/pkg/utils"
)

const ticketConflictMessage = "Ticket already exists"

// SupportTicketRepository implements support ticket operations
type SupportTicketRepository struct {
	db *gorm.DB
}

// NewSupportTicketRepository creates a new support ticket repository
func NewSupportTicketRepository(db *gorm.DB) *SupportTicketRepository {
	return &SupportTicketRepository{db: db}
}

// Create opens a ticket
func (r *SupportTicketRepository) Create(ctx context.Context, t *entities.SupportTicket) error {
	now := time.Now()
	if t.ID == uuid.Nil {
		t.ID = utils.GenerateUUIDv7()
	}
	if t.Priority == "" {
		t.Priority = entities.TicketPriorityMedium
	}
	if t.Status == "" {
		t.Status = entities.TicketOpen
	}
	t.CreatedAt, t.UpdatedAt = now, now

	m := &models.SupportTicket{
		ID:          t.ID,
		UserID:      t.UserID,
		Subject:     t.Subject,
		Description: t.Description,
		Category:    t.Category,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		AssignedTo:  t.AssignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return translateError(conn(ctx, r.db).Create(m).Error, ticketConflictMessage)
}

// GetByID gets a ticket with its author name and reply count
func (r *SupportTicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.SupportTicket, error) {
	var m models.SupportTicket
	err := withTicketAuthor(conn(ctx, r.db).Model(&models.SupportTicket{})).
		Where("support_tickets.id = ?", id).
		Take(&m).Error
	if err != nil {
		return nil, translateError(err, ticketConflictMessage)
	}
	return toTicketEntity(&m), nil
}

// Update applies the supplied columns
func (r *SupportTicketRepository) Update(ctx context.Context, id uuid.UUID, input *entities.TicketUpdate) (*entities.SupportTicket, error) {
	if input == nil || input.Empty() {
		return nil, domainerrors.ErrNotFound
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if input.Subject != nil {
		updates["subject"] = *input.Subject
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Priority != nil {
		updates["priority"] = string(*input.Priority)
	}
	if input.Status != nil {
		updates["status"] = string(*input.Status)
	}
	if input.AssignedTo != nil {
		updates["assigned_to"] = *input.AssignedTo
	}

	result := conn(ctx, r.db).Model(&models.SupportTicket{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error, ticketConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// List lists tickets, most recently active first
func (r *SupportTicketRepository) List(ctx context.Context, filter entities.TicketFilter) ([]*entities.SupportTicket, int64, error) {
	query := conn(ctx, r.db).Model(&models.SupportTicket{})
	if filter.UserID != nil {
		query = query.Where("support_tickets.user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("support_tickets.status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("support_tickets.priority = ?", filter.Priority)
	}
	if filter.Category != "" {
		query = query.Where("support_tickets.category = ?", filter.Category)
	}

	var ms []models.SupportTicket
	total, err := listPage(query, filter.PaginationParams, &ms, func(q *gorm.DB) *gorm.DB {
		return withTicketAuthor(q).Order("support_tickets.updated_at DESC")
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.SupportTicket, 0, len(ms))
	for i := range ms {
		out = append(out, toTicketEntity(&ms[i]))
	}
	return out, total, nil
}

// Delete hard deletes a ticket together with its replies
func (r *SupportTicketRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.SupportTicket, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	db := conn(ctx, r.db)
	if err := db.Delete(&models.TicketReply{}, "ticket_id = ?", id).Error; err != nil {
		return nil, translateError(err, ticketConflictMessage)
	}
	result := db.Delete(&models.SupportTicket{}, "id = ?", id)
	if result.Error != nil {
		return nil, translateError(result.Error, ticketConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return t, nil
}

// CreateReply appends a reply and touches the ticket.
// Closed tickets reject replies with ErrClosedTicket.
func (r *SupportTicketRepository) CreateReply(ctx context.Context, reply *entities.TicketReply) error {
	now := time.Now()
	db := conn(ctx, r.db)

	result := db.Model(&models.SupportTicket{}).
		Where("id = ? AND status <> ?", reply.TicketID, string(entities.TicketClosed)).
		Update("updated_at", now)
	if result.Error != nil {
		return translateError(result.Error, ticketConflictMessage)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.SupportTicket{}).Where("id = ?", reply.TicketID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrClosedTicket
	}

	if reply.ID == uuid.Nil {
		reply.ID = utils.GenerateUUIDv7()
	}
	reply.CreatedAt = now
	m := &models.TicketReply{
		ID:        reply.ID,
		TicketID:  reply.TicketID,
		UserID:    reply.UserID,
		Message:   reply.Message,
		IsStaff:   reply.IsStaff,
		CreatedAt: now,
	}
	return translateError(db.Omit("Ticket").Create(m).Error, ticketConflictMessage)
}

// ListReplies lists the replies of a ticket in posting order
func (r *SupportTicketRepository) ListReplies(ctx context.Context, ticketID uuid.UUID) ([]*entities.TicketReply, error) {
	var ms []models.TicketReply
	err := conn(ctx, r.db).Model(&models.TicketReply{}).
		Select("ticket_replies.*, u.first_name AS user_first_name, u.last_name AS user_last_name").
		Joins("LEFT JOIN users u ON u.id = ticket_replies.user_id").
		Where("ticket_replies.ticket_id = ?", ticketID).
		Order("ticket_replies.created_at ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entities.TicketReply, 0, len(ms))
	for i := range ms {
		m := &ms[i]
		out = append(out, &entities.TicketReply{
			ID:        m.ID,
			TicketID:  m.TicketID,
			UserID:    m.UserID,
			Message:   m.Message,
			IsStaff:   m.IsStaff,
			CreatedAt: m.CreatedAt,
			UserName:  fullName(m.UserFirstName, m.UserLastName),
		})
	}
	return out, nil
}

func withTicketAuthor(q *gorm.DB) *gorm.DB {
	return q.Select("support_tickets.*, u.first_name AS user_first_name, u.last_name AS user_last_name, " +
		"(SELECT COUNT(*) FROM ticket_replies tr WHERE tr.ticket_id = support_tickets.id) AS reply_count").
		Joins("LEFT JOIN users u ON u.id = support_tickets.user_id")
}

func toTicketEntity(m *models.SupportTicket) *entities.SupportTicket {
	return &entities.SupportTicket{
		ID:          m.ID,
		UserID:      m.UserID,
		Subject:     m.Subject,
		Description: m.Description,
		Category:    m.Category,
		Priority:    entities.TicketPriority(m.Priority),
		Status:      entities.TicketStatus(m.Status),
		AssignedTo:  m.AssignedTo,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		UserName:    fullName(m.UserFirstName, m.UserLastName),
		ReplyCount:  m.ReplyCount,
	}
}
