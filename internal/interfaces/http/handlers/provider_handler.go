package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/interfaces/http/response"
	"smilecare.backend/internal/interfaces/http/upload"
)

// ProviderService manages provider profiles and fees
type ProviderService interface {
	List(ctx context.Context, filter entities.ProviderFilter) ([]*entities.Provider, int64, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*entities.Provider, error)
	Create(ctx context.Context, input *entities.CreateProviderInput) (*entities.Provider, error)
	Update(ctx context.Context, actor *entities.User, userID uuid.UUID, input *entities.ProviderUpdate) (*entities.Provider, error)
	SetClinicPhotos(ctx context.Context, actor *entities.User, userID uuid.UUID, photos []entities.FileMeta, mode entities.FileMode) (*entities.Provider, []entities.FileMeta, error)
	Delete(ctx context.Context, userID uuid.UUID) (*entities.Provider, error)
	ListFees(ctx context.Context, filter entities.FeeFilter) ([]*entities.ProviderProcedureFee, int64, error)
	UpsertFee(ctx context.Context, actor *entities.User, providerID uuid.UUID, input *entities.UpsertFeeInput) (*entities.ProviderProcedureFee, error)
	BulkUpsertFees(ctx context.Context, actor *entities.User, providerID uuid.UUID, input *entities.BulkUpsertFeesInput) ([]*entities.ProviderProcedureFee, error)
	DeleteFee(ctx context.Context, actor *entities.User, providerID, feeID uuid.UUID) (*entities.ProviderProcedureFee, error)
}

// ProviderHandler handles provider endpoints
type ProviderHandler struct {
	providerService ProviderService
	uploads         FileStager
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(providerService ProviderService, uploads FileStager) *ProviderHandler {
	return &ProviderHandler{providerService: providerService, uploads: uploads}
}

// ListProviders lists provider profiles
// GET /api/v1/providers
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	q := newQueryFilters(c)
	filter := entities.ProviderFilter{
		PaginationParams: paginationFrom(c),
		Specialization:   q.text("specialization"),
		IsAvailable:      q.optBool("is_available"),
		Search:           q.text("search"),
	}
	if !q.done() {
		return
	}

	providers, total, err := h.providerService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondList(c, providers, total, filter.PaginationParams)
}

// GetProvider gets a provider by user ID
// GET /api/v1/providers/:id
func (h *ProviderHandler) GetProvider(c *gin.Context) {
	id, ok := pathID(c, "id", "provider")
	if !ok {
		return
	}

	provider, err := h.providerService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, provider)
}

// CreateProvider creates the profile of a provider user
// POST /api/v1/providers
func (h *ProviderHandler) CreateProvider(c *gin.Context) {
	var input entities.CreateProviderInput
	if !bindJSON(c, &input) {
		return
	}

	provider, err := h.providerService.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Provider created successfully", provider)
}

// UpdateProvider edits a provider profile
// PUT /api/v1/providers/:id
func (h *ProviderHandler) UpdateProvider(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "provider")
	if !ok {
		return
	}
	var input entities.ProviderUpdate
	if !bindJSON(c, &input) {
		return
	}

	provider, err := h.providerService.Update(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Provider updated successfully", provider)
}

// UploadClinicPhotos appends or replaces clinic photos
// POST /api/v1/providers/:id/clinic-photos?mode=append|replace
func (h *ProviderHandler) UploadClinicPhotos(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "provider")
	if !ok {
		return
	}
	mode, valid := entities.ParseFileMode(c.DefaultQuery("mode", c.PostForm("mode")))
	if !valid {
		response.Error(c, domainerrors.BadRequest("mode must be replace or append"))
		return
	}
	ctx := c.Request.Context()

	batch, err := h.uploads.Stage(c, upload.ClinicPhotos, "photos")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer batch.Cleanup(ctx)

	provider, removed, err := h.providerService.SetClinicPhotos(ctx, actor, id, batch.Files, mode)
	if err != nil {
		response.Error(c, err)
		return
	}
	batch.Commit()
	h.uploads.DeleteFiles(ctx, removed)

	response.SuccessWithMessage(c, http.StatusOK, "Clinic photos updated successfully", provider)
}

// DeleteProvider removes a provider profile and its photos
// DELETE /api/v1/providers/:id
func (h *ProviderHandler) DeleteProvider(c *gin.Context) {
	id, ok := pathID(c, "id", "provider")
	if !ok {
		return
	}

	provider, err := h.providerService.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.uploads.DeleteFiles(c.Request.Context(), provider.ClinicPhotos)
	response.SuccessWithMessage(c, http.StatusOK, "Provider deleted successfully", provider)
}

// ListFees lists the procedure fees of a provider
// GET /api/v1/providers/:id/fees
func (h *ProviderHandler) ListFees(c *gin.Context) {
	id, ok := pathID(c, "id", "provider")
	if !ok {
		return
	}
	q := newQueryFilters(c)
	filter := entities.FeeFilter{
		PaginationParams: paginationFrom(c),
		ProviderID:       &id,
		ProcedureID:      q.optUUID("procedure_id"),
	}
	if !q.done() {
		return
	}

	fees, total, err := h.providerService.ListFees(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondList(c, fees, total, filter.PaginationParams)
}

// UpsertFee sets one procedure fee
// POST /api/v1/providers/:id/fees
func (h *ProviderHandler) UpsertFee(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "provider")
	if !ok {
		return
	}
	var input entities.UpsertFeeInput
	if !bindJSON(c, &input) {
		return
	}

	fee, err := h.providerService.UpsertFee(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Fee saved successfully", fee)
}

// BulkUpsertFees sets many procedure fees in one transaction
// POST /api/v1/providers/:id/fees/bulk
func (h *ProviderHandler) BulkUpsertFees(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "provider")
	if !ok {
		return
	}
	var input entities.BulkUpsertFeesInput
	if !bindJSON(c, &input) {
		return
	}

	fees, err := h.providerService.BulkUpsertFees(c.Request.Context(), actor, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Fees saved successfully", fees)
}

// DeleteFee removes one procedure fee
// DELETE /api/v1/providers/:id/fees/:feeId
func (h *ProviderHandler) DeleteFee(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "provider")
	if !ok {
		return
	}
	feeID, ok := pathID(c, "feeId", "fee")
	if !ok {
		return
	}

	fee, err := h.providerService.DeleteFee(c.Request.Context(), actor, id, feeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Fee deleted successfully", fee)
}
