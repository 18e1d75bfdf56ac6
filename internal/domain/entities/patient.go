package entities

import (
	"time"

	"github.com/google/uuid"
	"smilecare.backend/pkg/utils"
)

// Patient is the clinical extension of a patient-type user
type Patient struct {
	UserID                uuid.UUID `json:"userId"`
	DateOfBirth           string    `json:"dateOfBirth"`
	Gender                string    `json:"gender"`
	Address               string    `json:"address"`
	BloodGroup            string    `json:"bloodGroup"`
	Allergies             string    `json:"allergies"`
	MedicalHistory        string    `json:"medicalHistory"`
	InsuranceProvider     string    `json:"insuranceProvider"`
	InsuranceNumber       string    `json:"insuranceNumber"`
	EmergencyContactName  string    `json:"emergencyContactName"`
	EmergencyContactPhone string    `json:"emergencyContactPhone"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`

	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Email        string `json:"email,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty"`
}

// CreatePatientInput represents input for creating a patient profile
type CreatePatientInput struct {
	UserID                uuid.UUID `json:"userId" binding:"required"`
	DateOfBirth           string    `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Gender                string    `json:"gender" binding:"omitempty,oneof=male female other"`
	Address               string    `json:"address"`
	BloodGroup            string    `json:"bloodGroup" binding:"max=5"`
	Allergies             string    `json:"allergies"`
	MedicalHistory        string    `json:"medicalHistory"`
	InsuranceProvider     string    `json:"insuranceProvider"`
	InsuranceNumber       string    `json:"insuranceNumber"`
	EmergencyContactName  string    `json:"emergencyContactName"`
	EmergencyContactPhone string    `json:"emergencyContactPhone"`
}

// PatientUpdate lists updatable patient columns
type PatientUpdate struct {
	DateOfBirth           *string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Gender                *string `json:"gender" binding:"omitempty,oneof=male female other"`
	Address               *string `json:"address"`
	BloodGroup            *string `json:"bloodGroup" binding:"omitempty,max=5"`
	Allergies             *string `json:"allergies"`
	MedicalHistory        *string `json:"medicalHistory"`
	InsuranceProvider     *string `json:"insuranceProvider"`
	InsuranceNumber       *string `json:"insuranceNumber"`
	EmergencyContactName  *string `json:"emergencyContactName"`
	EmergencyContactPhone *string `json:"emergencyContactPhone"`
}

// Empty reports whether no column was supplied
func (u PatientUpdate) Empty() bool {
	return u.DateOfBirth == nil && u.Gender == nil && u.Address == nil && u.BloodGroup == nil &&
		u.Allergies == nil && u.MedicalHistory == nil && u.InsuranceProvider == nil &&
		u.InsuranceNumber == nil && u.EmergencyContactName == nil && u.EmergencyContactPhone == nil
}

// PatientFilter holds list filters for patients
type PatientFilter struct {
	utils.PaginationParams
	Gender string
	Search string
}
