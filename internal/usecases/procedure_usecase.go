package usecases

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/domain/repositories"
)

// ProcedureUsecase handles the treatment catalogue
type ProcedureUsecase struct {
	procedureRepo repositories.ProcedureRepository
}

// NewProcedureUsecase creates a new procedure usecase
func NewProcedureUsecase(procedureRepo repositories.ProcedureRepository) *ProcedureUsecase {
	return &ProcedureUsecase{procedureRepo: procedureRepo}
}

func (u *ProcedureUsecase) List(ctx context.Context, filter entities.ProcedureFilter) ([]*entities.Procedure, int64, error) {
	return u.procedureRepo.List(ctx, filter)
}

func (u *ProcedureUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.Procedure, error) {
	return u.procedureRepo.GetByID(ctx, id)
}

// Create adds a catalogue entry. Codes are stored upper case.
func (u *ProcedureUsecase) Create(ctx context.Context, input *entities.CreateProcedureInput) (*entities.Procedure, error) {
	if input.DefaultFee.IsNegative() {
		return nil, domainerrors.BadRequest("Default fee cannot be negative")
	}
	procedure := &entities.Procedure{
		Name:            strings.TrimSpace(input.Name),
		Code:            strings.ToUpper(strings.TrimSpace(input.Code)),
		Description:     input.Description,
		DefaultFee:      input.DefaultFee,
		DurationMinutes: input.DurationMinutes,
		IsActive:        input.IsActive == nil || *input.IsActive,
	}
	if err := u.procedureRepo.Create(ctx, procedure); err != nil {
		return nil, err
	}
	return procedure, nil
}

func (u *ProcedureUsecase) Update(ctx context.Context, id uuid.UUID, input *entities.ProcedureUpdate) (*entities.Procedure, error) {
	if input.DefaultFee != nil && input.DefaultFee.IsNegative() {
		return nil, domainerrors.BadRequest("Default fee cannot be negative")
	}
	if input.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*input.Code))
		input.Code = &code
	}
	return u.procedureRepo.Update(ctx, id, input)
}

func (u *ProcedureUsecase) Delete(ctx context.Context, id uuid.UUID) (*entities.Procedure, error) {
	return u.procedureRepo.Delete(ctx, id)
}
