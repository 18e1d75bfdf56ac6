package models

import (
	"time"

	"github.com/google/uuid"
)

type SupportTicket struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Subject     string     `gorm:"type:varchar(200);not null"`
	Description string     `gorm:"type:text;not null"`
	Category    string     `gorm:"type:varchar(50)"`
	Priority    string     `gorm:"type:varchar(10);not null;default:'Medium'"`
	Status      string     `gorm:"type:varchar(20);not null;default:'Open';index"`
	AssignedTo  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	UserFirstName string `gorm:"->;-:migration"`
	UserLastName  string `gorm:"->;-:migration"`
	ReplyCount    int    `gorm:"->;-:migration"`
}

func (SupportTicket) TableName() string { return "support_tickets" }

type TicketReply struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TicketID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	Message   string    `gorm:"type:text;not null"`
	IsStaff   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time

	UserFirstName string `gorm:"->;-:migration"`
	UserLastName  string `gorm:"->;-:migration"`

	Ticket SupportTicket `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
}

func (TicketReply) TableName() string { return "ticket_replies" }

type Conversation struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	PatientID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_conversation_pair"`
	ProviderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_conversation_pair"`
	LastMessageAt *time.Time
	CreatedAt     time.Time

	PartyNames  `gorm:"embedded"`
	UnreadCount int `gorm:"->;-:migration"`
}

func (Conversation) TableName() string { return "conversations" }

type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null"`
	Body           string    `gorm:"type:text;not null"`
	ReadAt         *time.Time
	CreatedAt      time.Time

	Conversation Conversation `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

func (Message) TableName() string { return "messages" }

// All lists every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&OTPVerification{},
		&RefreshToken{},
		&Provider{},
		&Patient{},
		&Plan{},
		&Procedure{},
		&ProviderProcedureFee{},
		&Appointment{},
		&Payment{},
		&Document{},
		&TreatmentPlan{},
		&SupportTicket{},
		&TicketReply{},
		&Conversation{},
		&Message{},
	}
}
