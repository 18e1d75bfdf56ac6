package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"smilecare.backend/pkg/utils"
)

// Procedure is an entry of the clinic's treatment catalogue
type Procedure struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	DefaultFee      decimal.Decimal `json:"defaultFee"`
	DurationMinutes int             `json:"durationMinutes"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CreateProcedureInput represents input for creating a procedure
type CreateProcedureInput struct {
	Name            string          `json:"name" binding:"required,max=150"`
	Code            string          `json:"code" binding:"required,max=30"`
	Description     string          `json:"description"`
	DefaultFee      decimal.Decimal `json:"defaultFee"`
	DurationMinutes int             `json:"durationMinutes" binding:"omitempty,gt=0"`
	IsActive        *bool           `json:"isActive"`
}

// ProcedureUpdate lists updatable procedure columns
type ProcedureUpdate struct {
	Name            *string          `json:"name" binding:"omitempty,max=150"`
	Code            *string          `json:"code" binding:"omitempty,max=30"`
	Description     *string          `json:"description"`
	DefaultFee      *decimal.Decimal `json:"defaultFee"`
	DurationMinutes *int             `json:"durationMinutes" binding:"omitempty,gt=0"`
	IsActive        *bool            `json:"isActive"`
}

// Empty reports whether no column was supplied
func (u ProcedureUpdate) Empty() bool {
	return u.Name == nil && u.Code == nil && u.Description == nil && u.DefaultFee == nil &&
		u.DurationMinutes == nil && u.IsActive == nil
}

// ProcedureFilter holds list filters for procedures
type ProcedureFilter struct {
	utils.PaginationParams
	IsActive *bool
	Search   string
}

// ProviderProcedureFee is a provider specific price for a procedure
type ProviderProcedureFee struct {
	ID          uuid.UUID       `json:"id"`
	ProviderID  uuid.UUID       `json:"providerId"`
	ProcedureID uuid.UUID       `json:"procedureId"`
	Fee         decimal.Decimal `json:"fee"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	ProcedureName string `json:"procedureName,omitempty"`
	ProcedureCode string `json:"procedureCode,omitempty"`
}

// UpsertFeeInput sets the fee of one procedure for a provider
type UpsertFeeInput struct {
	ProcedureID uuid.UUID       `json:"procedureId" binding:"required"`
	Fee         decimal.Decimal `json:"fee" binding:"required"`
}

// BulkUpsertFeesInput sets many fees atomically
type BulkUpsertFeesInput struct {
	Fees []UpsertFeeInput `json:"fees" binding:"required,min=1,max=200,dive"`
}

// FeeFilter holds list filters for provider fees
type FeeFilter struct {
	utils.PaginationParams
	ProviderID  *uuid.UUID
	ProcedureID *uuid.UUID
}
