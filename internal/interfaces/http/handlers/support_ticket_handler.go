package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	"smilecare.backend/internal/interfaces/http/response"
)

// SupportTicketService manages help desk tickets
type SupportTicketService interface {
	List(ctx context.Context, actor *entities.User, filter entities.TicketFilter) ([]*entities.SupportTicket, int64, error)
	GetByID(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.SupportTicket, error)
	Create(ctx context.Context, actor *entities.User, input *entities.CreateTicketInput) (*entities.SupportTicket, error)
	Update(ctx context.Context, actor *entities.User, id uuid.UUID, input *entities.TicketUpdate) (*entities.SupportTicket, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.SupportTicket, error)
	Reply(ctx context.Context, actor *entities.User, ticketID uuid.UUID, input *entities.CreateReplyInput) (*entities.TicketReply, error)
	ListReplies(ctx context.Context, actor *entities.User, ticketID uuid.UUID) ([]*entities.TicketReply, error)
}

// SupportTicketHandler handles support ticket endpoints
type SupportTicketHandler struct {
	ticketService SupportTicketService
}

// NewSupportTicketHandler creates a new support ticket handler
func NewSupportTicketHandler(ticketService SupportTicketService) *SupportTicketHandler {
	return &SupportTicketHandler{ticketService: ticketService}
}

// ListTickets lists tickets; non-staff only see their own
// GET /api/v1/support-tickets
func (h *SupportTicketHandler) ListTickets(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	q := newQueryFilters(c)
	filter := entities.TicketFilter{
		PaginationParams: paginationFrom(c),
		UserID:           q.optUUID("user_id"),
		Status:           q.text("status"),
		Priority:         q.text("priority"),
		Category:         q.text("category"),
	}
	if !q.done() {
		return
	}

	tickets, total, err := h.ticketService.List(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondList(c, tickets, total, filter.PaginationParams)
}

// GetTicket gets a ticket by ID
// GET /api/v1/support-tickets/:id
func (h *SupportTicketHandler) GetTicket(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "ticket")
	if !ok {
		return
	}

	ticket, err := h.ticketService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, ticket)
}

// CreateTicket raises a ticket
// POST /api/v1/support-tickets
func (h *SupportTicketHandler) CreateTicket(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.CreateTicketInput
	if !bindJSON(c, &input) {
		return
	}

	ticket, err := h.ticketService.Create(c.Request.Context(), actor, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Support ticket created successfully", ticket)
}

// UpdateTicket edits, assigns or closes a ticket
// PUT /api/v1/support-tickets/:id
func (h *SupportTicketHandler) UpdateTicket(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "ticket")
	if !ok {
		return
	}
	var input entities.TicketUpdate
	if !bindJSON(c, &input) {
		return
	}

	ticket, err := h.ticketService.Update(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Support ticket updated successfully", ticket)
}

// DeleteTicket removes a ticket with its replies
// DELETE /api/v1/support-tickets/:id
func (h *SupportTicketHandler) DeleteTicket(c *gin.Context) {
	id, ok := pathID(c, "id", "ticket")
	if !ok {
		return
	}

	ticket, err := h.ticketService.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Support ticket deleted successfully", ticket)
}

// ListReplies lists the replies of a ticket, oldest first
// GET /api/v1/support-tickets/:id/replies
func (h *SupportTicketHandler) ListReplies(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "ticket")
	if !ok {
		return
	}

	replies, err := h.ticketService.ListReplies(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, replies)
}

// CreateReply answers a ticket
// POST /api/v1/support-tickets/:id/replies
func (h *SupportTicketHandler) CreateReply(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "ticket")
	if !ok {
		return
	}
	var input entities.CreateReplyInput
	if !bindJSON(c, &input) {
		return
	}

	reply, err := h.ticketService.Reply(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Reply added successfully", reply)
}
