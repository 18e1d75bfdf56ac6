package usecases

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/domain/repositories"
)

// PlanUsecase handles membership plans
type PlanUsecase struct {
	planRepo repositories.PlanRepository
}

// NewPlanUsecase creates a new plan usecase
func NewPlanUsecase(planRepo repositories.PlanRepository) *PlanUsecase {
	return &PlanUsecase{planRepo: planRepo}
}

func (u *PlanUsecase) List(ctx context.Context, filter entities.PlanFilter) ([]*entities.Plan, int64, error) {
	return u.planRepo.List(ctx, filter)
}

func (u *PlanUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.Plan, error) {
	return u.planRepo.GetByID(ctx, id)
}

func (u *PlanUsecase) Create(ctx context.Context, input *entities.CreatePlanInput) (*entities.Plan, error) {
	if input.Price.IsNegative() {
		return nil, domainerrors.BadRequest("Price cannot be negative")
	}
	plan := &entities.Plan{
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Price:        input.Price,
		DurationDays: input.DurationDays,
		Features:     input.Features,
		IsActive:     input.IsActive == nil || *input.IsActive,
	}
	if err := u.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (u *PlanUsecase) Update(ctx context.Context, id uuid.UUID, input *entities.PlanUpdate) (*entities.Plan, error) {
	if input.Price != nil && input.Price.IsNegative() {
		return nil, domainerrors.BadRequest("Price cannot be negative")
	}
	return u.planRepo.Update(ctx, id, input)
}

func (u *PlanUsecase) Delete(ctx context.Context, id uuid.UUID) (*entities.Plan, error) {
	return u.planRepo.Delete(ctx, id)
}
