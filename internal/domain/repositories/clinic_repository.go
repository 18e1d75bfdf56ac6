package repositories

import (
	"context"

	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
)

// ProviderRepository defines provider profile operations
type ProviderRepository interface {
	Create(ctx context.Context, provider *entities.Provider) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Provider, error)
	Update(ctx context.Context, userID uuid.UUID, input *entities.ProviderUpdate) (*entities.Provider, error)
	List(ctx context.Context, filter entities.ProviderFilter) ([]*entities.Provider, int64, error)
	Delete(ctx context.Context, userID uuid.UUID) (*entities.Provider, error)
}

// PatientRepository defines patient profile operations
type PatientRepository interface {
	Create(ctx context.Context, patient *entities.Patient) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Patient, error)
	Update(ctx context.Context, userID uuid.UUID, input *entities.PatientUpdate) (*entities.Patient, error)
	List(ctx context.Context, filter entities.PatientFilter) ([]*entities.Patient, int64, error)
	Delete(ctx context.Context, userID uuid.UUID) (*entities.Patient, error)
}

// PlanRepository defines membership plan operations
type PlanRepository interface {
	Create(ctx context.Context, plan *entities.Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Plan, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.PlanUpdate) (*entities.Plan, error)
	List(ctx context.Context, filter entities.PlanFilter) ([]*entities.Plan, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.Plan, error)
}

// ProcedureRepository defines procedure catalogue operations
type ProcedureRepository interface {
	Create(ctx context.Context, procedure *entities.Procedure) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Procedure, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.ProcedureUpdate) (*entities.Procedure, error)
	List(ctx context.Context, filter entities.ProcedureFilter) ([]*entities.Procedure, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.Procedure, error)
}

// ProviderFeeRepository defines provider procedure fee operations
type ProviderFeeRepository interface {
	Upsert(ctx context.Context, fee *entities.ProviderProcedureFee) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ProviderProcedureFee, error)
	List(ctx context.Context, filter entities.FeeFilter) ([]*entities.ProviderProcedureFee, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.ProviderProcedureFee, error)
}
