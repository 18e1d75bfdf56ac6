package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/infrastructure/models"
	"smilecare.backend/pkg/utils"
)

const treatmentPlanConflictMessage = "Treatment plan already exists"

// TreatmentPlanRepository implements treatment plan operations
type TreatmentPlanRepository struct {
	db *gorm.DB
}

// NewTreatmentPlanRepository creates a new treatment plan repository
func NewTreatmentPlanRepository(db *gorm.DB) *TreatmentPlanRepository {
	return &TreatmentPlanRepository{db: db}
}

// Create stores a treatment plan; the total is derived from the items
func (r *TreatmentPlanRepository) Create(ctx context.Context, p *entities.TreatmentPlan) error {
	now := time.Now()
	if p.ID == uuid.Nil {
		p.ID = utils.GenerateUUIDv7()
	}
	if p.Status == "" {
		p.Status = entities.TreatmentPlanDraft
	}
	if p.Items == nil {
		p.Items = []entities.TreatmentItem{}
	}
	p.TotalCost = entities.SumItemCosts(p.Items)
	p.CreatedAt, p.UpdatedAt = now, now

	m := &models.TreatmentPlan{
		ID:         p.ID,
		PatientID:  p.PatientID,
		ProviderID: p.ProviderID,
		Title:      p.Title,
		Diagnosis:  p.Diagnosis,
		Status:     string(p.Status),
		Items:      datatypes.NewJSONSlice(p.Items),
		TotalCost:  p.TotalCost,
		StartDate:  p.StartDate,
		Notes:      p.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return translateError(conn(ctx, r.db).Create(m).Error, treatmentPlanConflictMessage)
}

// GetByID gets a treatment plan with party names
func (r *TreatmentPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.TreatmentPlan, error) {
	var m models.TreatmentPlan
	err := withParties(conn(ctx, r.db).Model(&models.TreatmentPlan{}), "treatment_plans").
		Where("treatment_plans.id = ?", id).
		Take(&m).Error
	if err != nil {
		return nil, translateError(err, treatmentPlanConflictMessage)
	}
	return toTreatmentPlanEntity(&m), nil
}

// Update applies the supplied columns; new items recompute the total
func (r *TreatmentPlanRepository) Update(ctx context.Context, id uuid.UUID, input *entities.TreatmentPlanUpdate) (*entities.TreatmentPlan, error) {
	if input == nil || input.Empty() {
		return nil, domainerrors.ErrNotFound
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Diagnosis != nil {
		updates["diagnosis"] = *input.Diagnosis
	}
	if input.Status != nil {
		updates["status"] = string(*input.Status)
	}
	if input.Items != nil {
		items := *input.Items
		if items == nil {
			items = []entities.TreatmentItem{}
		}
		updates["items"] = datatypes.NewJSONSlice(items)
		updates["total_cost"] = entities.SumItemCosts(items)
	}
	if input.StartDate != nil {
		updates["start_date"] = *input.StartDate
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	result := conn(ctx, r.db).Model(&models.TreatmentPlan{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error, treatmentPlanConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// List lists treatment plans, newest first
func (r *TreatmentPlanRepository) List(ctx context.Context, filter entities.TreatmentPlanFilter) ([]*entities.TreatmentPlan, int64, error) {
	query := conn(ctx, r.db).Model(&models.TreatmentPlan{})
	if filter.PatientID != nil {
		query = query.Where("treatment_plans.patient_id = ?", *filter.PatientID)
	}
	if filter.ProviderID != nil {
		query = query.Where("treatment_plans.provider_id = ?", *filter.ProviderID)
	}
	if filter.Status != "" {
		query = query.Where("treatment_plans.status = ?", filter.Status)
	}

	var ms []models.TreatmentPlan
	total, err := listPage(query, filter.PaginationParams, &ms, func(q *gorm.DB) *gorm.DB {
		return withParties(q, "treatment_plans").Order("treatment_plans.created_at DESC")
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.TreatmentPlan, 0, len(ms))
	for i := range ms {
		out = append(out, toTreatmentPlanEntity(&ms[i]))
	}
	return out, total, nil
}

// Delete hard deletes a treatment plan
func (r *TreatmentPlanRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.TreatmentPlan, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := conn(ctx, r.db).Delete(&models.TreatmentPlan{}, "id = ?", id)
	if result.Error != nil {
		return nil, translateError(result.Error, treatmentPlanConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return p, nil
}

func toTreatmentPlanEntity(m *models.TreatmentPlan) *entities.TreatmentPlan {
	items := []entities.TreatmentItem(m.Items)
	if items == nil {
		items = []entities.TreatmentItem{}
	}
	return &entities.TreatmentPlan{
		ID:           m.ID,
		PatientID:    m.PatientID,
		ProviderID:   m.ProviderID,
		Title:        m.Title,
		Diagnosis:    m.Diagnosis,
		Status:       entities.TreatmentPlanStatus(m.Status),
		Items:        items,
		TotalCost:    m.TotalCost,
		StartDate:    m.StartDate,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		PatientName:  fullName(m.PatientFirstName, m.PatientLastName),
		ProviderName: fullName(m.ProviderFirstName, m.ProviderLastName),
	}
}
