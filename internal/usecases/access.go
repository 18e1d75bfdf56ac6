package usecases

import (
	"strings"

	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
)

func isAdmin(actor *entities.User) bool {
	return actor != nil && actor.UserType == entities.UserRoleAdmin
}

// canAccessCareRecord reports whether the actor is the admin, the patient or the provider of a record
func canAccessCareRecord(actor *entities.User, patientID uuid.UUID, providerID *uuid.UUID) bool {
	if actor == nil {
		return false
	}
	switch actor.UserType {
	case entities.UserRoleAdmin:
		return true
	case entities.UserRolePatient:
		return actor.ID == patientID
	case entities.UserRoleProvider:
		return providerID != nil && actor.ID == *providerID
	}
	return false
}

// scopeToActor narrows list filters so patients and providers only see their own rows
func scopeToActor(actor *entities.User, patientID, providerID **uuid.UUID) {
	if actor == nil {
		return
	}
	id := actor.ID
	switch actor.UserType {
	case entities.UserRolePatient:
		*patientID = &id
	case entities.UserRoleProvider:
		*providerID = &id
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
