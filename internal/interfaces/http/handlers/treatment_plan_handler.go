package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	"smilecare.backend/internal/interfaces/http/response"
)

// TreatmentPlanService manages treatment plans
type TreatmentPlanService interface {
	List(ctx context.Context, actor *entities.User, filter entities.TreatmentPlanFilter) ([]*entities.TreatmentPlan, int64, error)
	GetByID(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.TreatmentPlan, error)
	Create(ctx context.Context, actor *entities.User, input *entities.CreateTreatmentPlanInput) (*entities.TreatmentPlan, error)
	Update(ctx context.Context, actor *entities.User, id uuid.UUID, input *entities.TreatmentPlanUpdate) (*entities.TreatmentPlan, error)
	Delete(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.TreatmentPlan, error)
}

// TreatmentPlanHandler handles treatment plan endpoints
type TreatmentPlanHandler struct {
	planService TreatmentPlanService
}

// NewTreatmentPlanHandler creates a new treatment plan handler
func NewTreatmentPlanHandler(planService TreatmentPlanService) *TreatmentPlanHandler {
	return &TreatmentPlanHandler{planService: planService}
}

// ListTreatmentPlans lists plans visible to the caller
// GET /api/v1/treatment-plans
func (h *TreatmentPlanHandler) ListTreatmentPlans(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	q := newQueryFilters(c)
	filter := entities.TreatmentPlanFilter{
		PaginationParams: paginationFrom(c),
		PatientID:        q.optUUID("patient_id"),
		ProviderID:       q.optUUID("provider_id"),
		Status:           q.text("status"),
	}
	if !q.done() {
		return
	}

	plans, total, err := h.planService.List(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondList(c, plans, total, filter.PaginationParams)
}

// GetTreatmentPlan gets a treatment plan by ID
// GET /api/v1/treatment-plans/:id
func (h *TreatmentPlanHandler) GetTreatmentPlan(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "treatment plan")
	if !ok {
		return
	}

	plan, err := h.planService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, plan)
}

// CreateTreatmentPlan drafts a plan for a patient
// POST /api/v1/treatment-plans
func (h *TreatmentPlanHandler) CreateTreatmentPlan(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.CreateTreatmentPlanInput
	if !bindJSON(c, &input) {
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), actor, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Treatment plan created successfully", plan)
}

// UpdateTreatmentPlan edits a plan
// PUT /api/v1/treatment-plans/:id
func (h *TreatmentPlanHandler) UpdateTreatmentPlan(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "treatment plan")
	if !ok {
		return
	}
	var input entities.TreatmentPlanUpdate
	if !bindJSON(c, &input) {
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Treatment plan updated successfully", plan)
}

// DeleteTreatmentPlan removes a plan
// DELETE /api/v1/treatment-plans/:id
func (h *TreatmentPlanHandler) DeleteTreatmentPlan(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "treatment plan")
	if !ok {
		return
	}

	plan, err := h.planService.Delete(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Treatment plan deleted successfully", plan)
}
