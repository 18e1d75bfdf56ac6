package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/infrastructure/models"
	"smilecare.backend/pkg/utils"
)

const planConflictMessage = "Plan name already exists"

// PlanRepository implements membership plan operations
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Create creates a plan
func (r *PlanRepository) Create(ctx context.Context, plan *entities.Plan) error {
	now := time.Now()
	if plan.ID == uuid.Nil {
		plan.ID = utils.GenerateUUIDv7()
	}
	plan.CreatedAt, plan.UpdatedAt = now, now

	m := &models.Plan{
		ID:           plan.ID,
		Name:         plan.Name,
		Description:  plan.Description,
		Price:        plan.Price,
		DurationDays: plan.DurationDays,
		Features:     pq.StringArray(nonNilStrings(plan.Features)),
		IsActive:     plan.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return translateError(conn(ctx, r.db).Create(m).Error, planConflictMessage)
}

// GetByID gets a plan by ID
func (r *PlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Plan, error) {
	var m models.Plan
	if err := conn(ctx, r.db).Where("id = ?", id).Take(&m).Error; err != nil {
		return nil, translateError(err, planConflictMessage)
	}
	return toPlanEntity(&m), nil
}

// Update applies the supplied columns
func (r *PlanRepository) Update(ctx context.Context, id uuid.UUID, input *entities.PlanUpdate) (*entities.Plan, error) {
	if input == nil || input.Empty() {
		return nil, domainerrors.ErrNotFound
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.DurationDays != nil {
		updates["duration_days"] = *input.DurationDays
	}
	if input.Features != nil {
		updates["features"] = pq.StringArray(nonNilStrings(*input.Features))
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	result := conn(ctx, r.db).Model(&models.Plan{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error, planConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// List lists plans, cheapest first
func (r *PlanRepository) List(ctx context.Context, filter entities.PlanFilter) ([]*entities.Plan, int64, error) {
	query := conn(ctx, r.db).Model(&models.Plan{})
	if filter.IsActive != nil {
		query = query.Where("plans.is_active = ?", *filter.IsActive)
	}

	var ms []models.Plan
	total, err := listPage(query, filter.PaginationParams, &ms, func(q *gorm.DB) *gorm.DB {
		return q.Order("plans.price ASC").Order("plans.name ASC")
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Plan, 0, len(ms))
	for i := range ms {
		out = append(out, toPlanEntity(&ms[i]))
	}
	return out, total, nil
}

// Delete hard deletes a plan
func (r *PlanRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.Plan, error) {
	plan, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := conn(ctx, r.db).Delete(&models.Plan{}, "id = ?", id)
	if result.Error != nil {
		return nil, translateError(result.Error, planConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return plan, nil
}

func toPlanEntity(m *models.Plan) *entities.Plan {
	return &entities.Plan{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		DurationDays: m.DurationDays,
		Features:     nonNilStrings(m.Features),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
