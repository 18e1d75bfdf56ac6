package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	"smilecare.backend/internal/interfaces/http/response"
)

// PatientService manages patient profiles
type PatientService interface {
	List(ctx context.Context, filter entities.PatientFilter) ([]*entities.Patient, int64, error)
	GetByID(ctx context.Context, actor *entities.User, userID uuid.UUID) (*entities.Patient, error)
	Create(ctx context.Context, actor *entities.User, input *entities.CreatePatientInput) (*entities.Patient, error)
	Update(ctx context.Context, actor *entities.User, userID uuid.UUID, input *entities.PatientUpdate) (*entities.Patient, error)
	Delete(ctx context.Context, userID uuid.UUID) (*entities.Patient, error)
}

// PatientHandler handles patient endpoints
type PatientHandler struct {
	patientService PatientService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(patientService PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

// ListPatients lists patient profiles
// GET /api/v1/patients
func (h *PatientHandler) ListPatients(c *gin.Context) {
	q := newQueryFilters(c)
	filter := entities.PatientFilter{
		PaginationParams: paginationFrom(c),
		Gender:           q.text("gender"),
		Search:           q.text("search"),
	}

	patients, total, err := h.patientService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondList(c, patients, total, filter.PaginationParams)
}

// GetPatient gets a patient by user ID
// GET /api/v1/patients/:id
func (h *PatientHandler) GetPatient(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "patient")
	if !ok {
		return
	}

	patient, err := h.patientService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, patient)
}

// CreatePatient creates the profile of a patient user
// POST /api/v1/patients
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.CreatePatientInput
	if !bindJSON(c, &input) {
		return
	}

	patient, err := h.patientService.Create(c.Request.Context(), actor, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Patient created successfully", patient)
}

// UpdatePatient edits a patient profile
// PUT /api/v1/patients/:id
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "patient")
	if !ok {
		return
	}
	var input entities.PatientUpdate
	if !bindJSON(c, &input) {
		return
	}

	patient, err := h.patientService.Update(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Patient updated successfully", patient)
}

// DeletePatient removes a patient profile
// DELETE /api/v1/patients/:id
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id, ok := pathID(c, "id", "patient")
	if !ok {
		return
	}

	patient, err := h.patientService.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Patient deleted successfully", patient)
}
