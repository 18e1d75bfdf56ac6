package usecases

import (
	"context"

	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/domain/repositories"
)

// PatientUsecase handles patient profiles
type PatientUsecase struct {
	patientRepo repositories.PatientRepository
	userRepo    repositories.UserRepository
}

// NewPatientUsecase creates a new patient usecase
func NewPatientUsecase(patientRepo repositories.PatientRepository, userRepo repositories.UserRepository) *PatientUsecase {
	return &PatientUsecase{patientRepo: patientRepo, userRepo: userRepo}
}

// List returns a page of patients
func (u *PatientUsecase) List(ctx context.Context, filter entities.PatientFilter) ([]*entities.Patient, int64, error) {
	return u.patientRepo.List(ctx, filter)
}

// GetByID returns a patient profile. Patients may only read their own.
func (u *PatientUsecase) GetByID(ctx context.Context, actor *entities.User, userID uuid.UUID) (*entities.Patient, error) {
	if actor != nil && actor.UserType == entities.UserRolePatient && actor.ID != userID {
		return nil, domainerrors.ErrForbidden
	}
	return u.patientRepo.GetByUserID(ctx, userID)
}

// Create adds the profile of an existing patient-type user.
// Patients may only create their own profile.
func (u *PatientUsecase) Create(ctx context.Context, actor *entities.User, input *entities.CreatePatientInput) (*entities.Patient, error) {
	if actor != nil && actor.UserType == entities.UserRolePatient {
		input.UserID = actor.ID
	}
	if err := requireUserOfType(ctx, u.userRepo, input.UserID, entities.UserRolePatient); err != nil {
		return nil, err
	}

	patient := &entities.Patient{
		UserID:                input.UserID,
		DateOfBirth:           input.DateOfBirth,
		Gender:                input.Gender,
		Address:               input.Address,
		BloodGroup:            input.BloodGroup,
		Allergies:             input.Allergies,
		MedicalHistory:        input.MedicalHistory,
		InsuranceProvider:     input.InsuranceProvider,
		InsuranceNumber:       input.InsuranceNumber,
		EmergencyContactName:  input.EmergencyContactName,
		EmergencyContactPhone: input.EmergencyContactPhone,
	}
	if err := u.patientRepo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return u.patientRepo.GetByUserID(ctx, patient.UserID)
}

// Update edits a profile. Patients may only edit their own.
func (u *PatientUsecase) Update(ctx context.Context, actor *entities.User, userID uuid.UUID, input *entities.PatientUpdate) (*entities.Patient, error) {
	if actor != nil && actor.UserType == entities.UserRolePatient && actor.ID != userID {
		return nil, domainerrors.ErrForbidden
	}
	return u.patientRepo.Update(ctx, userID, input)
}

// Delete removes a patient profile
func (u *PatientUsecase) Delete(ctx context.Context, userID uuid.UUID) (*entities.Patient, error) {
	return u.patientRepo.Delete(ctx, userID)
}
