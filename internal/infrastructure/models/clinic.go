package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"smilecare.backend/internal/domain/entities"
)

// UserNames holds display columns selected from joined users rows
type UserNames struct {
	FirstName      string  `gorm:"->;-:migration"`
	LastName       string  `gorm:"->;-:migration"`
	Email          *string `gorm:"->;-:migration"`
	MobileNumber   *string `gorm:"->;-:migration"`
	ProfilePicture *string `gorm:"->;-:migration"`
}

type Provider struct {
	UserID          uuid.UUID                              `gorm:"type:uuid;primaryKey"`
	Specialization  string                                 `gorm:"type:varchar(100);not null;index"`
	LicenseNumber   string                                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClinicName      string                                 `gorm:"type:varchar(150)"`
	ClinicAddress   string                                 `gorm:"type:text"`
	ExperienceYears int                                    `gorm:"not null;default:0"`
	Bio             string                                 `gorm:"type:text"`
	ConsultationFee decimal.Decimal                        `gorm:"type:decimal(12,2);not null;default:0"`
	Specialties     pq.StringArray                         `gorm:"type:text[]"`
	Languages       pq.StringArray                         `gorm:"type:text[]"`
	ClinicPhotos    datatypes.JSONSlice[entities.FileMeta] `gorm:"type:jsonb"`
	IsAvailable     bool                                   `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	UserNames `gorm:"embedded"`
	User      User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Provider) TableName() string { return "providers" }

type Patient struct {
	UserID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	DateOfBirth           string    `gorm:"type:varchar(10)"`
	Gender                string    `gorm:"type:varchar(10);index"`
	Address               string    `gorm:"type:text"`
	BloodGroup            string    `gorm:"type:varchar(5)"`
	Allergies             string    `gorm:"type:text"`
	MedicalHistory        string    `gorm:"type:text"`
	InsuranceProvider     string    `gorm:"type:varchar(100)"`
	InsuranceNumber       string    `gorm:"type:varchar(100)"`
	EmergencyContactName  string    `gorm:"type:varchar(100)"`
	EmergencyContactPhone string    `gorm:"type:varchar(20)"`
	CreatedAt             time.Time
	UpdatedAt             time.Time

	UserNames `gorm:"embedded"`
	User      User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Patient) TableName() string { return "patients" }

type Plan struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name         string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description  string          `gorm:"type:text"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DurationDays int             `gorm:"not null"`
	Features     pq.StringArray  `gorm:"type:text[]"`
	IsActive     bool            `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Plan) TableName() string { return "plans" }

type Procedure struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name            string          `gorm:"type:varchar(150);not null;uniqueIndex"`
	Code            string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	Description     string          `gorm:"type:text"`
	DefaultFee      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DurationMinutes int             `gorm:"not null;default:30"`
	IsActive        bool            `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Procedure) TableName() string { return "procedures" }

type ProviderProcedureFee struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProviderID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_provider_procedure"`
	ProcedureID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_provider_procedure"`
	Fee         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	ProcedureName string `gorm:"->;-:migration"`
	ProcedureCode string `gorm:"->;-:migration"`

	Provider  Provider  `gorm:"foreignKey:ProviderID;references:UserID;constraint:OnDelete:CASCADE"`
	Procedure Procedure `gorm:"foreignKey:ProcedureID;constraint:OnDelete:CASCADE"`
}

func (ProviderProcedureFee) TableName() string { return "provider_procedure_fees" }
