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

// DocumentService manages clinical documents
type DocumentService interface {
	List(ctx context.Context, actor *entities.User, filter entities.DocumentFilter) ([]*entities.Document, int64, error)
	GetByID(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.Document, error)
	Create(ctx context.Context, actor *entities.User, input *entities.NewDocument) (*entities.Document, error)
	Update(ctx context.Context, actor *entities.User, id uuid.UUID, input *entities.DocumentUpdate, files []entities.FileMeta, mode entities.FileMode) (*entities.Document, []entities.FileMeta, error)
	Delete(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.Document, error)
}

// DocumentHandler handles document endpoints
type DocumentHandler struct {
	documentService DocumentService
	uploads         FileStager
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService DocumentService, uploads FileStager) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, uploads: uploads}
}

// ListDocuments lists documents visible to the caller
// GET /api/v1/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	q := newQueryFilters(c)
	filter := entities.DocumentFilter{
		PaginationParams: paginationFrom(c),
		PatientID:        q.optUUID("patient_id"),
		ProviderID:       q.optUUID("provider_id"),
		AppointmentID:    q.optUUID("appointment_id"),
		DocumentType:     q.text("document_type"),
	}
	if !q.done() {
		return
	}

	documents, total, err := h.documentService.List(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondList(c, documents, total, filter.PaginationParams)
}

// GetDocument gets a document by ID
// GET /api/v1/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "document")
	if !ok {
		return
	}

	document, err := h.documentService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, document)
}

// CreateDocument uploads files and stores the document.
// Stored files are removed again when anything after the upload fails.
// POST /api/v1/documents (multipart)
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	batch, err := h.uploads.Stage(c, upload.Documents, "files")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer batch.Cleanup(ctx)

	var input entities.CreateDocumentInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	document := &entities.NewDocument{
		Title:        input.Title,
		DocumentType: input.DocumentType,
		Description:  input.Description,
		Files:        batch.Files,
	}
	if input.PatientID != "" {
		patientID, err := uuid.Parse(input.PatientID)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("Invalid patientId"))
			return
		}
		document.PatientID = patientID
	}
	if document.ProviderID, err = optionalFormUUID(input.ProviderID, "providerId"); err != nil {
		response.Error(c, err)
		return
	}
	if document.AppointmentID, err = optionalFormUUID(input.AppointmentID, "appointmentId"); err != nil {
		response.Error(c, err)
		return
	}

	created, err := h.documentService.Create(ctx, actor, document)
	if err != nil {
		response.Error(c, err)
		return
	}
	batch.Commit()

	response.SuccessWithMessage(c, http.StatusCreated, "Document uploaded successfully", created)
}

// UpdateDocument edits a document and optionally adds files.
// mode=replace (default) drops the previous files from storage once the row is updated; mode=append keeps them.
// PUT /api/v1/documents/:id (multipart)
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "document")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	batch, err := h.uploads.Stage(c, upload.Documents, "files")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer batch.Cleanup(ctx)

	mode, valid := entities.ParseFileMode(c.DefaultQuery("mode", c.PostForm("mode")))
	if !valid {
		response.Error(c, domainerrors.BadRequest("mode must be replace or append"))
		return
	}

	var input entities.DocumentUpdate
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	document, removed, err := h.documentService.Update(ctx, actor, id, &input, batch.Files, mode)
	if err != nil {
		response.Error(c, err)
		return
	}
	batch.Commit()
	h.uploads.DeleteFiles(ctx, removed)

	response.SuccessWithMessage(c, http.StatusOK, "Document updated successfully", document)
}

// DeleteDocument removes a document and its files
// DELETE /api/v1/documents/:id
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "document")
	if !ok {
		return
	}

	document, err := h.documentService.Delete(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.uploads.DeleteFiles(c.Request.Context(), document.Files)
	response.SuccessWithMessage(c, http.StatusOK, "Document deleted successfully", document)
}
