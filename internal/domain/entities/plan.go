package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"smilecare.backend/pkg/utils"
)

// Plan is a membership plan sold by the clinic
type Plan struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"durationDays"`
	Features     []string        `json:"features"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// CreatePlanInput represents input for creating a plan
type CreatePlanInput struct {
	Name         string          `json:"name" binding:"required,max=100"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	DurationDays int             `json:"durationDays" binding:"required,gt=0"`
	Features     []string        `json:"features"`
	IsActive     *bool           `json:"isActive"`
}

// PlanUpdate lists updatable plan columns
type PlanUpdate struct {
	Name         *string          `json:"name" binding:"omitempty,max=100"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	DurationDays *int             `json:"durationDays" binding:"omitempty,gt=0"`
	Features     *[]string        `json:"features"`
	IsActive     *bool            `json:"isActive"`
}

// Empty reports whether no column was supplied
func (u PlanUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.DurationDays == nil &&
		u.Features == nil && u.IsActive == nil
}

// PlanFilter holds list filters for plans
type PlanFilter struct {
	utils.PaginationParams
	IsActive *bool
}
