package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	"smilecare.backend/internal/interfaces/http/response"
)

// AppointmentService manages bookings
type AppointmentService interface {
	List(ctx context.Context, actor *entities.User, filter entities.AppointmentFilter) ([]*entities.Appointment, int64, error)
	GetByID(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.Appointment, error)
	Create(ctx context.Context, actor *entities.User, input *entities.CreateAppointmentInput) (*entities.Appointment, error)
	Update(ctx context.Context, actor *entities.User, id uuid.UUID, input *entities.AppointmentUpdate) (*entities.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.Appointment, error)
}

// AppointmentHandler handles appointment endpoints
type AppointmentHandler struct {
	appointmentService AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(appointmentService AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// ListAppointments lists appointments visible to the caller, newest date first
// GET /api/v1/appointments
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	q := newQueryFilters(c)
	filter := entities.AppointmentFilter{
		PaginationParams: paginationFrom(c),
		PatientID:        q.optUUID("patient_id"),
		ProviderID:       q.optUUID("provider_id"),
		Status:           q.text("status"),
		Type:             q.text("type"),
		DateFrom:         q.dateString("date_from"),
		DateTo:           q.dateString("date_to"),
	}
	if !q.done() {
		return
	}

	appointments, total, err := h.appointmentService.List(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondList(c, appointments, total, filter.PaginationParams)
}

// GetAppointment gets an appointment by ID
// GET /api/v1/appointments/:id
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, appointment)
}

// CreateAppointment books an appointment
// POST /api/v1/appointments
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.CreateAppointmentInput
	if !bindJSON(c, &input) {
		return
	}

	appointment, err := h.appointmentService.Create(c.Request.Context(), actor, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Appointment created successfully", appointment)
}

// UpdateAppointment edits or cancels an appointment
// PUT /api/v1/appointments/:id
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "appointment")
	if !ok {
		return
	}
	var input entities.AppointmentUpdate
	if !bindJSON(c, &input) {
		return
	}

	appointment, err := h.appointmentService.Update(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Appointment updated successfully", appointment)
}

// DeleteAppointment removes an appointment
// DELETE /api/v1/appointments/:id
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	id, ok := pathID(c, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentService.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Appointment deleted successfully", appointment)
}
