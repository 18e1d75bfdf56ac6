package entities

import (
	"time"

	"github.com/google/uuid"
	"smilecare.backend/pkg/utils"
)

// AppointmentStatus represents the lifecycle of a visit
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentNoShow    AppointmentStatus = "no_show"
)

// Appointment is a booked visit between a patient and a provider
type Appointment struct {
	ID              uuid.UUID         `json:"id"`
	PatientID       uuid.UUID         `json:"patientId"`
	ProviderID      uuid.UUID         `json:"providerId"`
	AppointmentDate string            `json:"appointmentDate"`
	AppointmentTime string            `json:"appointmentTime"`
	DurationMinutes int               `json:"durationMinutes"`
	Type            string            `json:"type"`
	Status          AppointmentStatus `json:"status"`
	Reason          string            `json:"reason"`
	Notes           string            `json:"notes"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`

	PatientName  string `json:"patientName,omitempty"`
	ProviderName string `json:"providerName,omitempty"`
}

// CreateAppointmentInput represents input for booking an appointment
type CreateAppointmentInput struct {
	PatientID       uuid.UUID `json:"patientId"`
	ProviderID      uuid.UUID `json:"providerId" binding:"required"`
	AppointmentDate string    `json:"appointmentDate" binding:"required,datetime=2006-01-02"`
	AppointmentTime string    `json:"appointmentTime" binding:"required,datetime=15:04"`
	DurationMinutes int       `json:"durationMinutes" binding:"omitempty,gt=0,lte=480"`
	Type            string    `json:"type" binding:"max=50"`
	Reason          string    `json:"reason"`
	Notes           string    `json:"notes"`
}

// AppointmentUpdate lists updatable appointment columns
type AppointmentUpdate struct {
	AppointmentDate *string            `json:"appointmentDate" binding:"omitempty,datetime=2006-01-02"`
	AppointmentTime *string            `json:"appointmentTime" binding:"omitempty,datetime=15:04"`
	DurationMinutes *int               `json:"durationMinutes" binding:"omitempty,gt=0,lte=480"`
	Type            *string            `json:"type" binding:"omitempty,max=50"`
	Status          *AppointmentStatus `json:"status" binding:"omitempty,oneof=scheduled confirmed completed cancelled no_show"`
	Reason          *string            `json:"reason"`
	Notes           *string            `json:"notes"`
}

// Empty reports whether no column was supplied
func (u AppointmentUpdate) Empty() bool {
	return u.AppointmentDate == nil && u.AppointmentTime == nil && u.DurationMinutes == nil &&
		u.Type == nil && u.Status == nil && u.Reason == nil && u.Notes == nil
}

// AppointmentFilter holds list filters for appointments
type AppointmentFilter struct {
	utils.PaginationParams
	PatientID  *uuid.UUID
	ProviderID *uuid.UUID
	Status     string
	Type       string
	DateFrom   string
	DateTo     string
}
