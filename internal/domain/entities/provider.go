package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"smilecare.backend/pkg/utils"
)

// Provider is the dentist extension of a provider-type user
type Provider struct {
	UserID          uuid.UUID       `json:"userId"`
	Specialization  string          `json:"specialization"`
	LicenseNumber   string          `json:"licenseNumber"`
	ClinicName      string          `json:"clinicName"`
	ClinicAddress   string          `json:"clinicAddress"`
	ExperienceYears int             `json:"experienceYears"`
	Bio             string          `json:"bio"`
	ConsultationFee decimal.Decimal `json:"consultationFee"`
	Specialties     []string        `json:"specialties"`
	Languages       []string        `json:"languages"`
	ClinicPhotos    []FileMeta      `json:"clinicPhotos"`
	IsAvailable     bool            `json:"isAvailable"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	// Display fields joined from users
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Email          string `json:"email,omitempty"`
	MobileNumber   string `json:"mobileNumber,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// CreateProviderInput represents input for creating a provider profile
type CreateProviderInput struct {
	UserID          uuid.UUID       `json:"userId" binding:"required"`
	Specialization  string          `json:"specialization" binding:"required,max=100"`
	LicenseNumber   string          `json:"licenseNumber" binding:"required,max=50"`
	ClinicName      string          `json:"clinicName" binding:"max=150"`
	ClinicAddress   string          `json:"clinicAddress"`
	ExperienceYears int             `json:"experienceYears" binding:"gte=0"`
	Bio             string          `json:"bio"`
	ConsultationFee decimal.Decimal `json:"consultationFee"`
	Specialties     []string        `json:"specialties"`
	Languages       []string        `json:"languages"`
	IsAvailable     *bool           `json:"isAvailable"`
}

// ProviderUpdate lists updatable provider columns
type ProviderUpdate struct {
	Specialization  *string          `json:"specialization" binding:"omitempty,max=100"`
	LicenseNumber   *string          `json:"licenseNumber" binding:"omitempty,max=50"`
	ClinicName      *string          `json:"clinicName" binding:"omitempty,max=150"`
	ClinicAddress   *string          `json:"clinicAddress"`
	ExperienceYears *int             `json:"experienceYears" binding:"omitempty,gte=0"`
	Bio             *string          `json:"bio"`
	ConsultationFee *decimal.Decimal `json:"consultationFee"`
	Specialties     *[]string        `json:"specialties"`
	Languages       *[]string        `json:"languages"`
	ClinicPhotos    *[]FileMeta      `json:"-"`
	IsAvailable     *bool            `json:"isAvailable"`
}

// Empty reports whether no column was supplied
func (u ProviderUpdate) Empty() bool {
	return u.Specialization == nil && u.LicenseNumber == nil && u.ClinicName == nil && u.ClinicAddress == nil &&
		u.ExperienceYears == nil && u.Bio == nil && u.ConsultationFee == nil && u.Specialties == nil &&
		u.Languages == nil && u.ClinicPhotos == nil && u.IsAvailable == nil
}

// ProviderFilter holds list filters for providers
type ProviderFilter struct {
	utils.PaginationParams
	Specialization string
	IsAvailable    *bool
	Search         string
}
