package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"smilecare.backend/internal/domain/entities"
)

// PartyNames holds patient/provider display columns selected through joins
type PartyNames struct {
	PatientFirstName  string `gorm:"->;-:migration"`
	PatientLastName   string `gorm:"->;-:migration"`
	ProviderFirstName string `gorm:"->;-:migration"`
	ProviderLastName  string `gorm:"->;-:migration"`
}

type Appointment struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	PatientID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ProviderID      uuid.UUID `gorm:"type:uuid;not null;index"`
	AppointmentDate string    `gorm:"type:varchar(10);not null;index"`
	AppointmentTime string    `gorm:"type:varchar(5);not null"`
	DurationMinutes int       `gorm:"not null;default:30"`
	Type            string    `gorm:"type:varchar(50)"`
	Status          string    `gorm:"type:varchar(20);not null;default:'scheduled';index"`
	Reason          string    `gorm:"type:text"`
	Notes           string    `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	PartyNames `gorm:"embedded"`
}

func (Appointment) TableName() string { return "appointments" }

type Payment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PatientID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProviderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	AppointmentID  *uuid.UUID      `gorm:"type:uuid;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Method         string          `gorm:"type:varchar(20);not null"`
	Status         string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	TransactionRef string          `gorm:"type:varchar(100)"`
	PaidAt         *time.Time
	Notes          string `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	PartyNames `gorm:"embedded"`
}

func (Payment) TableName() string { return "payments" }

type Document struct {
	ID            uuid.UUID                              `gorm:"type:uuid;primaryKey"`
	PatientID     uuid.UUID                              `gorm:"type:uuid;not null;index"`
	ProviderID    *uuid.UUID                             `gorm:"type:uuid;index"`
	AppointmentID *uuid.UUID                             `gorm:"type:uuid;index"`
	Title         string                                 `gorm:"type:varchar(200);not null"`
	DocumentType  string                                 `gorm:"type:varchar(20);not null"`
	Description   string                                 `gorm:"type:text"`
	Files         datatypes.JSONSlice[entities.FileMeta] `gorm:"type:jsonb"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	PartyNames `gorm:"embedded"`
}

func (Document) TableName() string { return "documents" }

type TreatmentPlan struct {
	ID         uuid.UUID                                   `gorm:"type:uuid;primaryKey"`
	PatientID  uuid.UUID                                   `gorm:"type:uuid;not null;index"`
	ProviderID uuid.UUID                                   `gorm:"type:uuid;not null;index"`
	Title      string                                      `gorm:"type:varchar(200);not null"`
	Diagnosis  string                                      `gorm:"type:text"`
	Status     string                                      `gorm:"type:varchar(20);not null;default:'draft'"`
	Items      datatypes.JSONSlice[entities.TreatmentItem] `gorm:"type:jsonb"`
	TotalCost  decimal.Decimal                             `gorm:"type:decimal(12,2);not null;default:0"`
	StartDate  *string                                     `gorm:"type:varchar(10)"`
	Notes      string                                      `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	PartyNames `gorm:"embedded"`
}

func (TreatmentPlan) TableName() string { return "treatment_plans" }
