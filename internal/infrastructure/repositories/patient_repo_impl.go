package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/infrastructure/models"
)

const patientConflictMessage = "Patient profile already exists"

// PatientRepository implements patient profile operations
type PatientRepository struct {
	db *gorm.DB
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

// Create creates a patient profile
func (r *PatientRepository) Create(ctx context.Context, p *entities.Patient) error {
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	m := &models.Patient{
		UserID:                p.UserID,
		DateOfBirth:           p.DateOfBirth,
		Gender:                p.Gender,
		Address:               p.Address,
		BloodGroup:            p.BloodGroup,
		Allergies:             p.Allergies,
		MedicalHistory:        p.MedicalHistory,
		InsuranceProvider:     p.InsuranceProvider,
		InsuranceNumber:       p.InsuranceNumber,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	return translateError(conn(ctx, r.db).Omit("User").Create(m).Error, patientConflictMessage)
}

// GetByUserID gets a patient by its user id
func (r *PatientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Patient, error) {
	var m models.Patient
	err := conn(ctx, r.db).Model(&models.Patient{}).
		Select(patientColumns).
		Joins("JOIN users ON users.id = patients.user_id").
		Where("patients.user_id = ?", userID).
		Take(&m).Error
	if err != nil {
		return nil, translateError(err, patientConflictMessage)
	}
	return toPatientEntity(&m), nil
}

// Update applies the supplied columns
func (r *PatientRepository) Update(ctx context.Context, userID uuid.UUID, input *entities.PatientUpdate) (*entities.Patient, error) {
	if input == nil || input.Empty() {
		return nil, domainerrors.ErrNotFound
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	set := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	set("date_of_birth", input.DateOfBirth)
	set("gender", input.Gender)
	set("address", input.Address)
	set("blood_group", input.BloodGroup)
	set("allergies", input.Allergies)
	set("medical_history", input.MedicalHistory)
	set("insurance_provider", input.InsuranceProvider)
	set("insurance_number", input.InsuranceNumber)
	set("emergency_contact_name", input.EmergencyContactName)
	set("emergency_contact_phone", input.EmergencyContactPhone)

	result := conn(ctx, r.db).Model(&models.Patient{}).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error, patientConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByUserID(ctx, userID)
}

// List lists patients with their user names
func (r *PatientRepository) List(ctx context.Context, filter entities.PatientFilter) ([]*entities.Patient, int64, error) {
	query := conn(ctx, r.db).Model(&models.Patient{}).
		Joins("JOIN users ON users.id = patients.user_id")

	if filter.Gender != "" {
		query = query.Where("patients.gender = ?", filter.Gender)
	}
	if filter.Search != "" {
		cond, args := searchCondition(filter.Search, "users.first_name", "users.last_name", "users.email", "users.mobile_number")
		query = query.Where(cond, args...)
	}

	var ms []models.Patient
	total, err := listPage(query, filter.PaginationParams, &ms, func(q *gorm.DB) *gorm.DB {
		return q.Select(patientColumns).Order("patients.created_at DESC")
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Patient, 0, len(ms))
	for i := range ms {
		out = append(out, toPatientEntity(&ms[i]))
	}
	return out, total, nil
}

// Delete hard deletes a patient profile
func (r *PatientRepository) Delete(ctx context.Context, userID uuid.UUID) (*entities.Patient, error) {
	p, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := conn(ctx, r.db).Delete(&models.Patient{}, "user_id = ?", userID)
	if result.Error != nil {
		return nil, translateError(result.Error, patientConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return p, nil
}

const patientColumns = "patients.*, users.first_name, users.last_name, users.email, users.mobile_number"

func toPatientEntity(m *models.Patient) *entities.Patient {
	return &entities.Patient{
		UserID:                m.UserID,
		DateOfBirth:           m.DateOfBirth,
		Gender:                m.Gender,
		Address:               m.Address,
		BloodGroup:            m.BloodGroup,
		Allergies:             m.Allergies,
		MedicalHistory:        m.MedicalHistory,
		InsuranceProvider:     m.InsuranceProvider,
		InsuranceNumber:       m.InsuranceNumber,
		EmergencyContactName:  m.EmergencyContactName,
		EmergencyContactPhone: m.EmergencyContactPhone,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
		FirstName:             m.FirstName,
		LastName:              m.LastName,
		Email:                 derefString(m.Email),
		MobileNumber:          derefString(m.MobileNumber),
	}
}
