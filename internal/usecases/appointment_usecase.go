package usecases

import (
	"context"

	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/domain/repositories"
)

// AppointmentUsecase handles appointment booking
type AppointmentUsecase struct {
	appointmentRepo repositories.AppointmentRepository
	userRepo        repositories.UserRepository
}

// NewAppointmentUsecase creates a new appointment usecase
func NewAppointmentUsecase(appointmentRepo repositories.AppointmentRepository, userRepo repositories.UserRepository) *AppointmentUsecase {
	return &AppointmentUsecase{appointmentRepo: appointmentRepo, userRepo: userRepo}
}

// List returns appointments visible to the actor
func (u *AppointmentUsecase) List(ctx context.Context, actor *entities.User, filter entities.AppointmentFilter) ([]*entities.Appointment, int64, error) {
	scopeToActor(actor, &filter.PatientID, &filter.ProviderID)
	return u.appointmentRepo.List(ctx, filter)
}

// GetByID returns an appointment the actor takes part in
func (u *AppointmentUsecase) GetByID(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.Appointment, error) {
	appointment, err := u.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccessCareRecord(actor, appointment.PatientID, &appointment.ProviderID) {
		return nil, domainerrors.ErrForbidden
	}
	return appointment, nil
}

// Create books an appointment. Patients book for themselves, providers with themselves.
func (u *AppointmentUsecase) Create(ctx context.Context, actor *entities.User, input *entities.CreateAppointmentInput) (*entities.Appointment, error) {
	switch actor.UserType {
	case entities.UserRolePatient:
		input.PatientID = actor.ID
	case entities.UserRoleProvider:
		input.ProviderID = actor.ID
	}
	if input.PatientID == uuid.Nil {
		return nil, domainerrors.BadRequest("patientId is required")
	}
	if err := requireUserOfType(ctx, u.userRepo, input.PatientID, entities.UserRolePatient); err != nil {
		return nil, err
	}
	if err := requireUserOfType(ctx, u.userRepo, input.ProviderID, entities.UserRoleProvider); err != nil {
		return nil, err
	}

	appointment := &entities.Appointment{
		PatientID:       input.PatientID,
		ProviderID:      input.ProviderID,
		AppointmentDate: input.AppointmentDate,
		AppointmentTime: input.AppointmentTime,
		DurationMinutes: input.DurationMinutes,
		Type:            input.Type,
		Status:          entities.AppointmentScheduled,
		Reason:          input.Reason,
		Notes:           input.Notes,
	}
	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, err
	}
	return u.appointmentRepo.GetByID(ctx, appointment.ID)
}

// Update edits an appointment. Patients may only reschedule or cancel their own.
func (u *AppointmentUsecase) Update(ctx context.Context, actor *entities.User, id uuid.UUID, input *entities.AppointmentUpdate) (*entities.Appointment, error) {
	if _, err := u.GetByID(ctx, actor, id); err != nil {
		return nil, err
	}
	if actor.UserType == entities.UserRolePatient && input.Status != nil && *input.Status != entities.AppointmentCancelled {
		return nil, domainerrors.Forbidden("Patients can only cancel appointments")
	}
	return u.appointmentRepo.Update(ctx, id, input)
}

// Delete removes an appointment
func (u *AppointmentUsecase) Delete(ctx context.Context, id uuid.UUID) (*entities.Appointment, error) {
	return u.appointmentRepo.Delete(ctx, id)
}
