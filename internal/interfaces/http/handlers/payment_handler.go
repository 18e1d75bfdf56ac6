package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	"smilecare.backend/internal/interfaces/http/response"
)

// PaymentService records payments
type PaymentService interface {
	List(ctx context.Context, actor *entities.User, filter entities.PaymentFilter) ([]*entities.Payment, int64, error)
	GetByID(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.Payment, error)
	Create(ctx context.Context, actor *entities.User, input *entities.CreatePaymentInput) (*entities.Payment, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.PaymentUpdate) (*entities.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.Payment, error)
}

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ListPayments lists payments visible to the caller
// GET /api/v1/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	q := newQueryFilters(c)
	filter := entities.PaymentFilter{
		PaginationParams: paginationFrom(c),
		PatientID:        q.optUUID("patient_id"),
		ProviderID:       q.optUUID("provider_id"),
		AppointmentID:    q.optUUID("appointment_id"),
		Status:           q.text("status"),
		Method:           q.text("method"),
		DateFrom:         q.date("date_from", false),
		DateTo:           q.date("date_to", true),
	}
	if !q.done() {
		return
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondList(c, payments, total, filter.PaginationParams)
}

// GetPayment gets a payment by ID
// GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "payment")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, payment)
}

// CreatePayment records a payment. Retries carrying the same Idempotency-Key are replayed by middleware.
// POST /api/v1/payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.CreatePaymentInput
	if !bindJSON(c, &input) {
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), actor, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Payment recorded successfully", payment)
}

// UpdatePayment edits a payment
// PUT /api/v1/payments/:id
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	id, ok := pathID(c, "id", "payment")
	if !ok {
		return
	}
	var input entities.PaymentUpdate
	if !bindJSON(c, &input) {
		return
	}

	payment, err := h.paymentService.Update(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Payment updated successfully", payment)
}

// DeletePayment removes a payment
// DELETE /api/v1/payments/:id
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	id, ok := pathID(c, "id", "payment")
	if !ok {
		return
	}

	payment, err := h.paymentService.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Payment deleted successfully", payment)
}
