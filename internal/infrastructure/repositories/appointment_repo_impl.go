package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/infrastructure/models"
	"smilecare.backend/pkg/utils"
)

const appointmentConflictMessage = "Appointment already exists"

// AppointmentRepository implements appointment operations
type AppointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create books an appointment
func (r *AppointmentRepository) Create(ctx context.Context, a *entities.Appointment) error {
	now := time.Now()
	if a.ID == uuid.Nil {
		a.ID = utils.GenerateUUIDv7()
	}
	if a.Status == "" {
		a.Status = entities.AppointmentScheduled
	}
	if a.DurationMinutes == 0 {
		a.DurationMinutes = 30
	}
	a.CreatedAt, a.UpdatedAt = now, now

	m := &models.Appointment{
		ID:              a.ID,
		PatientID:       a.PatientID,
		ProviderID:      a.ProviderID,
		AppointmentDate: a.AppointmentDate,
		AppointmentTime: a.AppointmentTime,
		DurationMinutes: a.DurationMinutes,
		Type:            a.Type,
		Status:          string(a.Status),
		Reason:          a.Reason,
		Notes:           a.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return translateError(conn(ctx, r.db).Create(m).Error, appointmentConflictMessage)
}

// GetByID gets an appointment with party names
func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Appointment, error) {
	var m models.Appointment
	err := withParties(conn(ctx, r.db).Model(&models.Appointment{}), "appointments").
		Where("appointments.id = ?", id).
		Take(&m).Error
	if err != nil {
		return nil, translateError(err, appointmentConflictMessage)
	}
	return toAppointmentEntity(&m), nil
}

// Update applies the supplied columns
func (r *AppointmentRepository) Update(ctx context.Context, id uuid.UUID, input *entities.AppointmentUpdate) (*entities.Appointment, error) {
	if input == nil || input.Empty() {
		return nil, domainerrors.ErrNotFound
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if input.AppointmentDate != nil {
		updates["appointment_date"] = *input.AppointmentDate
	}
	if input.AppointmentTime != nil {
		updates["appointment_time"] = *input.AppointmentTime
	}
	if input.DurationMinutes != nil {
		updates["duration_minutes"] = *input.DurationMinutes
	}
	if input.Type != nil {
		updates["type"] = *input.Type
	}
	if input.Status != nil {
		updates["status"] = string(*input.Status)
	}
	if input.Reason != nil {
		updates["reason"] = *input.Reason
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	result := conn(ctx, r.db).Model(&models.Appointment{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error, appointmentConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// List lists appointments, most recent slot first
func (r *AppointmentRepository) List(ctx context.Context, filter entities.AppointmentFilter) ([]*entities.Appointment, int64, error) {
	query := conn(ctx, r.db).Model(&models.Appointment{})
	if filter.PatientID != nil {
		query = query.Where("appointments.patient_id = ?", *filter.PatientID)
	}
	if filter.ProviderID != nil {
		query = query.Where("appointments.provider_id = ?", *filter.ProviderID)
	}
	if filter.Status != "" {
		query = query.Where("appointments.status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("appointments.type = ?", filter.Type)
	}
	if filter.DateFrom != "" {
		query = query.Where("appointments.appointment_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("appointments.appointment_date <= ?", filter.DateTo)
	}

	var ms []models.Appointment
	total, err := listPage(query, filter.PaginationParams, &ms, func(q *gorm.DB) *gorm.DB {
		return withParties(q, "appointments").
			Order("appointments.appointment_date DESC").
			Order("appointments.appointment_time DESC")
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Appointment, 0, len(ms))
	for i := range ms {
		out = append(out, toAppointmentEntity(&ms[i]))
	}
	return out, total, nil
}

// Delete hard deletes an appointment
func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.Appointment, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := conn(ctx, r.db).Delete(&models.Appointment{}, "id = ?", id)
	if result.Error != nil {
		return nil, translateError(result.Error, appointmentConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return a, nil
}

func toAppointmentEntity(m *models.Appointment) *entities.Appointment {
	return &entities.Appointment{
		ID:              m.ID,
		PatientID:       m.PatientID,
		ProviderID:      m.ProviderID,
		AppointmentDate: m.AppointmentDate,
		AppointmentTime: m.AppointmentTime,
		DurationMinutes: m.DurationMinutes,
		Type:            m.Type,
		Status:          entities.AppointmentStatus(m.Status),
		Reason:          m.Reason,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		PatientName:     fullName(m.PatientFirstName, m.PatientLastName),
		ProviderName:    fullName(m.ProviderFirstName, m.ProviderLastName),
	}
}
