package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"smilecare.backend/pkg/utils"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// PaymentMethod represents how a patient paid
type PaymentMethod string

const (
	PaymentMethodCash      PaymentMethod = "cash"
	PaymentMethodCard      PaymentMethod = "card"
	PaymentMethodInsurance PaymentMethod = "insurance"
	PaymentMethodOnline    PaymentMethod = "online"
)

// Payment records money received for treatment
type Payment struct {
	ID             uuid.UUID       `json:"id"`
	PatientID      uuid.UUID       `json:"patientId"`
	ProviderID     uuid.UUID       `json:"providerId"`
	AppointmentID  *uuid.UUID      `json:"appointmentId,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Method         PaymentMethod   `json:"method"`
	Status         PaymentStatus   `json:"status"`
	TransactionRef string          `json:"transactionRef"`
	PaidAt         null.Time       `json:"paidAt"`
	Notes          string          `json:"notes"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`

	PatientName  string `json:"patientName,omitempty"`
	ProviderName string `json:"providerName,omitempty"`
}

// CreatePaymentInput represents input for recording a payment
type CreatePaymentInput struct {
	PatientID      uuid.UUID       `json:"patientId" binding:"required"`
	ProviderID     uuid.UUID       `json:"providerId" binding:"required"`
	AppointmentID  *uuid.UUID      `json:"appointmentId"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Currency       string          `json:"currency" binding:"omitempty,len=3"`
	Method         PaymentMethod   `json:"method" binding:"required,oneof=cash card insurance online"`
	Status         PaymentStatus   `json:"status" binding:"omitempty,oneof=pending completed failed refunded"`
	TransactionRef string          `json:"transactionRef" binding:"max=100"`
	Notes          string          `json:"notes"`
}

// PaymentUpdate lists updatable payment columns
type PaymentUpdate struct {
	Amount         *decimal.Decimal `json:"amount"`
	Method         *PaymentMethod   `json:"method" binding:"omitempty,oneof=cash card insurance online"`
	Status         *PaymentStatus   `json:"status" binding:"omitempty,oneof=pending completed failed refunded"`
	TransactionRef *string          `json:"transactionRef" binding:"omitempty,max=100"`
	PaidAt         *time.Time       `json:"paidAt"`
	Notes          *string          `json:"notes"`
}

// Empty reports whether no column was supplied
func (u PaymentUpdate) Empty() bool {
	return u.Amount == nil && u.Method == nil && u.Status == nil && u.TransactionRef == nil &&
		u.PaidAt == nil && u.Notes == nil
}

// PaymentFilter holds list filters for payments
type PaymentFilter struct {
	utils.PaginationParams
	PatientID     *uuid.UUID
	ProviderID    *uuid.UUID
	AppointmentID *uuid.UUID
	Status        string
	Method        string
	DateFrom      *time.Time
	DateTo        *time.Time
}
