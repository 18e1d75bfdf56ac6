package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	"smilecare.backend/internal/interfaces/http/response"
)

// PlanService manages membership plans
type PlanService interface {
	List(ctx context.Context, filter entities.PlanFilter) ([]*entities.Plan, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Plan, error)
	Create(ctx context.Context, input *entities.CreatePlanInput) (*entities.Plan, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.PlanUpdate) (*entities.Plan, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.Plan, error)
}

// ProcedureService manages the procedure catalog
type ProcedureService interface {
	List(ctx context.Context, filter entities.ProcedureFilter) ([]*entities.Procedure, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Procedure, error)
	Create(ctx context.Context, input *entities.CreateProcedureInput) (*entities.Procedure, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.ProcedureUpdate) (*entities.Procedure, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.Procedure, error)
}

// CatalogHandler handles plan and procedure endpoints
type CatalogHandler struct {
	planService      PlanService
	procedureService ProcedureService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(planService PlanService, procedureService ProcedureService) *CatalogHandler {
	return &CatalogHandler{planService: planService, procedureService: procedureService}
}

// ListPlans lists membership plans
// GET /api/v1/plans
func (h *CatalogHandler) ListPlans(c *gin.Context) {
	q := newQueryFilters(c)
	filter := entities.PlanFilter{
		PaginationParams: paginationFrom(c),
		IsActive:         q.optBool("is_active"),
	}
	if !q.done() {
		return
	}

	plans, total, err := h.planService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondList(c, plans, total, filter.PaginationParams)
}

// GetPlan gets a plan by ID
// GET /api/v1/plans/:id
func (h *CatalogHandler) GetPlan(c *gin.Context) {
	id, ok := pathID(c, "id", "plan")
	if !ok {
		return
	}

	plan, err := h.planService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, plan)
}

// CreatePlan adds a plan
// POST /api/v1/plans
func (h *CatalogHandler) CreatePlan(c *gin.Context) {
	var input entities.CreatePlanInput
	if !bindJSON(c, &input) {
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Plan created successfully", plan)
}

// UpdatePlan edits a plan
// PUT /api/v1/plans/:id
func (h *CatalogHandler) UpdatePlan(c *gin.Context) {
	id, ok := pathID(c, "id", "plan")
	if !ok {
		return
	}
	var input entities.PlanUpdate
	if !bindJSON(c, &input) {
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Plan updated successfully", plan)
}

// DeletePlan removes a plan
// DELETE /api/v1/plans/:id
func (h *CatalogHandler) DeletePlan(c *gin.Context) {
	id, ok := pathID(c, "id", "plan")
	if !ok {
		return
	}

	plan, err := h.planService.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Plan deleted successfully", plan)
}

// ListProcedures lists catalog procedures
// GET /api/v1/procedures
func (h *CatalogHandler) ListProcedures(c *gin.Context) {
	q := newQueryFilters(c)
	filter := entities.ProcedureFilter{
		PaginationParams: paginationFrom(c),
		IsActive:         q.optBool("is_active"),
		Search:           q.text("search"),
	}
	if !q.done() {
		return
	}

	procedures, total, err := h.procedureService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondList(c, procedures, total, filter.PaginationParams)
}

// GetProcedure gets a procedure by ID
// GET /api/v1/procedures/:id
func (h *CatalogHandler) GetProcedure(c *gin.Context) {
	id, ok := pathID(c, "id", "procedure")
	if !ok {
		return
	}

	procedure, err := h.procedureService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, procedure)
}

// CreateProcedure adds a procedure
// POST /api/v1/procedures
func (h *CatalogHandler) CreateProcedure(c *gin.Context) {
	var input entities.CreateProcedureInput
	if !bindJSON(c, &input) {
		return
	}

	procedure, err := h.procedureService.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Procedure created successfully", procedure)
}

// UpdateProcedure edits a procedure
// PUT /api/v1/procedures/:id
func (h *CatalogHandler) UpdateProcedure(c *gin.Context) {
	id, ok := pathID(c, "id", "procedure")
	if !ok {
		return
	}
	var input entities.ProcedureUpdate
	if !bindJSON(c, &input) {
		return
	}

	procedure, err := h.procedureService.Update(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Procedure updated successfully", procedure)
}

// DeleteProcedure removes a procedure
// DELETE /api/v1/procedures/:id
func (h *CatalogHandler) DeleteProcedure(c *gin.Context) {
	id, ok := pathID(c, "id", "procedure")
	if !ok {
		return
	}

	procedure, err := h.procedureService.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Procedure deleted successfully", procedure)
}
