package repositories

import (
	"context"

	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
)

// AppointmentRepository defines appointment operations
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entities.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Appointment, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.AppointmentUpdate) (*entities.Appointment, error)
	List(ctx context.Context, filter entities.AppointmentFilter) ([]*entities.Appointment, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.Appointment, error)
}

// PaymentRepository defines payment operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entities.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.PaymentUpdate) (*entities.Payment, error)
	List(ctx context.Context, filter entities.PaymentFilter) ([]*entities.Payment, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.Payment, error)
}

// DocumentRepository defines document operations
type DocumentRepository interface {
	Create(ctx context.Context, document *entities.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Document, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.DocumentUpdate) (*entities.Document, error)
	List(ctx context.Context, filter entities.DocumentFilter) ([]*entities.Document, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.Document, error)
}

// TreatmentPlanRepository defines treatment plan operations
type TreatmentPlanRepository interface {
	Create(ctx context.Context, plan *entities.TreatmentPlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.TreatmentPlan, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.TreatmentPlanUpdate) (*entities.TreatmentPlan, error)
	List(ctx context.Context, filter entities.TreatmentPlanFilter) ([]*entities.TreatmentPlan, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.TreatmentPlan, error)
}
