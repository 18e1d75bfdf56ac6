package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"smilecare.backend/pkg/utils"
)

// TreatmentPlanStatus represents treatment plan progress
type TreatmentPlanStatus string

const (
	TreatmentPlanDraft      TreatmentPlanStatus = "draft"
	TreatmentPlanProposed   TreatmentPlanStatus = "proposed"
	TreatmentPlanAccepted   TreatmentPlanStatus = "accepted"
	TreatmentPlanInProgress TreatmentPlanStatus = "in_progress"
	TreatmentPlanCompleted  TreatmentPlanStatus = "completed"
	TreatmentPlanCancelled  TreatmentPlanStatus = "cancelled"
)

// TreatmentItem is one planned procedure
type TreatmentItem struct {
	ProcedureID *uuid.UUID      `json:"procedureId,omitempty"`
	ToothNumber string          `json:"toothNumber"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
	Status      string          `json:"status"`
}

// SumItemCosts totals the cost of the given items
func SumItemCosts(items []TreatmentItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Cost)
	}
	return total
}

// TreatmentPlan groups planned procedures for a patient
type TreatmentPlan struct {
	ID         uuid.UUID           `json:"id"`
	PatientID  uuid.UUID           `json:"patientId"`
	ProviderID uuid.UUID           `json:"providerId"`
	Title      string              `json:"title"`
	Diagnosis  string              `json:"diagnosis"`
	Status     TreatmentPlanStatus `json:"status"`
	Items      []TreatmentItem     `json:"items"`
	TotalCost  decimal.Decimal     `json:"totalCost"`
	StartDate  *string             `json:"startDate,omitempty"`
	Notes      string              `json:"notes"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`

	PatientName  string `json:"patientName,omitempty"`
	ProviderName string `json:"providerName,omitempty"`
}

// CreateTreatmentPlanInput represents input for creating a treatment plan
type CreateTreatmentPlanInput struct {
	PatientID  uuid.UUID           `json:"patientId" binding:"required"`
	ProviderID uuid.UUID           `json:"providerId"`
	Title      string              `json:"title" binding:"required,max=200"`
	Diagnosis  string              `json:"diagnosis"`
	Status     TreatmentPlanStatus `json:"status" binding:"omitempty,oneof=draft proposed accepted in_progress completed cancelled"`
	Items      []TreatmentItem     `json:"items" binding:"dive"`
	StartDate  *string             `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	Notes      string              `json:"notes"`
}

// TreatmentPlanUpdate lists updatable treatment plan columns
type TreatmentPlanUpdate struct {
	Title     *string              `json:"title" binding:"omitempty,max=200"`
	Diagnosis *string              `json:"diagnosis"`
	Status    *TreatmentPlanStatus `json:"status" binding:"omitempty,oneof=draft proposed accepted in_progress completed cancelled"`
	Items     *[]TreatmentItem     `json:"items"`
	StartDate *string              `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	Notes     *string              `json:"notes"`
}

// Empty reports whether no column was supplied
func (u TreatmentPlanUpdate) Empty() bool {
	return u.Title == nil && u.Diagnosis == nil && u.Status == nil && u.Items == nil &&
		u.StartDate == nil && u.Notes == nil
}

// TreatmentPlanFilter holds list filters for treatment plans
type TreatmentPlanFilter struct {
	utils.PaginationParams
	PatientID  *uuid.UUID
	ProviderID *uuid.UUID
	Status     string
}
