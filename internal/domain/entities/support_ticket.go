package entities

import (
	"time"

	"github.com/google/uuid"
	"smilecare.backend/pkg/utils"
)

// TicketStatus represents support ticket status
type TicketStatus string

const (
	TicketOpen       TicketStatus = "Open"
	TicketInProgress TicketStatus = "In Progress"
	TicketResolved   TicketStatus = "Resolved"
	TicketClosed     TicketStatus = "Closed"
)

// TicketPriority represents support ticket urgency
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityUrgent TicketPriority = "Urgent"
)

// SupportTicket is a help request raised by any user
type SupportTicket struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"userId"`
	Subject     string         `json:"subject"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Priority    TicketPriority `json:"priority"`
	Status      TicketStatus   `json:"status"`
	AssignedTo  *uuid.UUID     `json:"assignedTo,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	UserName   string `json:"userName,omitempty"`
	ReplyCount int    `json:"replyCount"`
}

// TicketReply is a message on a support ticket
type TicketReply struct {
	ID        uuid.UUID `json:"id"`
	TicketID  uuid.UUID `json:"ticketId"`
	UserID    uuid.UUID `json:"userId"`
	Message   string    `json:"message"`
	IsStaff   bool      `json:"isStaff"`
	CreatedAt time.Time `json:"createdAt"`

	UserName string `json:"userName,omitempty"`
}

// CreateTicketInput represents input for raising a ticket
type CreateTicketInput struct {
	Subject     string         `json:"subject" binding:"required,max=200"`
	Description string         `json:"description" binding:"required"`
	Category    string         `json:"category" binding:"max=50"`
	Priority    TicketPriority `json:"priority" binding:"omitempty,oneof=Low Medium High Urgent"`
}

// TicketUpdate lists updatable ticket columns
type TicketUpdate struct {
	Subject     *string         `json:"subject" binding:"omitempty,max=200"`
	Description *string         `json:"description"`
	Category    *string         `json:"category" binding:"omitempty,max=50"`
	Priority    *TicketPriority `json:"priority" binding:"omitempty,oneof=Low Medium High Urgent"`
	Status      *TicketStatus   `json:"status" binding:"omitempty,oneof=Open 'In Progress' Resolved Closed"`
	AssignedTo  *uuid.UUID      `json:"assignedTo"`
}

// Empty reports whether no column was supplied
func (u TicketUpdate) Empty() bool {
	return u.Subject == nil && u.Description == nil && u.Category == nil && u.Priority == nil &&
		u.Status == nil && u.AssignedTo == nil
}

// CreateReplyInput represents a new reply
type CreateReplyInput struct {
	Message string `json:"message" binding:"required"`
}

// TicketFilter holds list filters for support tickets
type TicketFilter struct {
	utils.PaginationParams
	UserID   *uuid.UUID
	Status   string
	Priority string
	Category string
}
