package usecases

import (
	"context"

	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/domain/repositories"
)

// TreatmentPlanUsecase handles treatment plans
type TreatmentPlanUsecase struct {
	planRepo repositories.TreatmentPlanRepository
	userRepo repositories.UserRepository
}

// NewTreatmentPlanUsecase creates a new treatment plan usecase
func NewTreatmentPlanUsecase(planRepo repositories.TreatmentPlanRepository, userRepo repositories.UserRepository) *TreatmentPlanUsecase {
	return &TreatmentPlanUsecase{planRepo: planRepo, userRepo: userRepo}
}

func (u *TreatmentPlanUsecase) List(ctx context.Context, actor *entities.User, filter entities.TreatmentPlanFilter) ([]*entities.TreatmentPlan, int64, error) {
	scopeToActor(actor, &filter.PatientID, &filter.ProviderID)
	return u.planRepo.List(ctx, filter)
}

func (u *TreatmentPlanUsecase) GetByID(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.TreatmentPlan, error) {
	plan, err := u.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccessCareRecord(actor, plan.PatientID, &plan.ProviderID) {
		return nil, domainerrors.ErrForbidden
	}
	return plan, nil
}

// Create drafts a plan. Providers always author plans as themselves.
func (u *TreatmentPlanUsecase) Create(ctx context.Context, actor *entities.User, input *entities.CreateTreatmentPlanInput) (*entities.TreatmentPlan, error) {
	if actor.UserType == entities.UserRoleProvider {
		input.ProviderID = actor.ID
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}
	if err := requireUserOfType(ctx, u.userRepo, input.PatientID, entities.UserRolePatient); err != nil {
		return nil, err
	}
	if err := requireUserOfType(ctx, u.userRepo, input.ProviderID, entities.UserRoleProvider); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = entities.TreatmentPlanDraft
	}
	plan := &entities.TreatmentPlan{
		PatientID:  input.PatientID,
		ProviderID: input.ProviderID,
		Title:      input.Title,
		Diagnosis:  input.Diagnosis,
		Status:     status,
		Items:      input.Items,
		StartDate:  input.StartDate,
		Notes:      input.Notes,
	}
	if err := u.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return u.planRepo.GetByID(ctx, plan.ID)
}

// Update edits a plan the provider owns. The total is recomputed when items change.
// Patients may only accept or cancel their own plan.
func (u *TreatmentPlanUsecase) Update(ctx context.Context, actor *entities.User, id uuid.UUID, input *entities.TreatmentPlanUpdate) (*entities.TreatmentPlan, error) {
	if _, err := u.GetByID(ctx, actor, id); err != nil {
		return nil, err
	}
	if actor.UserType == entities.UserRolePatient {
		if err := patientPlanUpdateAllowed(input); err != nil {
			return nil, err
		}
	}
	if input.Items != nil {
		if err := validateItems(*input.Items); err != nil {
			return nil, err
		}
	}
	return u.planRepo.Update(ctx, id, input)
}

func (u *TreatmentPlanUsecase) Delete(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.TreatmentPlan, error) {
	if _, err := u.GetByID(ctx, actor, id); err != nil {
		return nil, err
	}
	return u.planRepo.Delete(ctx, id)
}

func patientPlanUpdateAllowed(input *entities.TreatmentPlanUpdate) error {
	if input.Title != nil || input.Diagnosis != nil || input.Items != nil || input.StartDate != nil || input.Notes != nil {
		return domainerrors.Forbidden("Patients can only accept or cancel treatment plans")
	}
	if input.Status != nil && *input.Status != entities.TreatmentPlanAccepted && *input.Status != entities.TreatmentPlanCancelled {
		return domainerrors.Forbidden("Patients can only accept or cancel treatment plans")
	}
	return nil
}

func validateItems(items []entities.TreatmentItem) error {
	for _, it := range items {
		if it.Cost.IsNegative() {
			return domainerrors.BadRequest("Item cost cannot be negative")
		}
	}
	return nil
}
