package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/infrastructure/models"
	"smilecare.backend/pkg/utils"
)

const documentConflictMessage = "Document already exists"

// DocumentRepository implements document operations
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create stores a document and its file metadata
func (r *DocumentRepository) Create(ctx context.Context, d *entities.Document) error {
	now := time.Now()
	if d.ID == uuid.Nil {
		d.ID = utils.GenerateUUIDv7()
	}
	d.Files = nonNilFiles(d.Files)
	d.CreatedAt, d.UpdatedAt = now, now

	m := &models.Document{
		ID:            d.ID,
		PatientID:     d.PatientID,
		ProviderID:    d.ProviderID,
		AppointmentID: d.AppointmentID,
		Title:         d.Title,
		DocumentType:  string(d.DocumentType),
		Description:   d.Description,
		Files:         datatypes.NewJSONSlice(d.Files),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return translateError(conn(ctx, r.db).Create(m).Error, documentConflictMessage)
}

// GetByID gets a document with party names
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Document, error) {
	var m models.Document
	err := withParties(conn(ctx, r.db).Model(&models.Document{}), "documents").
		Where("documents.id = ?", id).
		Take(&m).Error
	if err != nil {
		return nil, translateError(err, documentConflictMessage)
	}
	return toDocumentEntity(&m), nil
}

// Update applies the supplied columns. Files, when set, replace the stored list.
func (r *DocumentRepository) Update(ctx context.Context, id uuid.UUID, input *entities.DocumentUpdate) (*entities.Document, error) {
	if input == nil || input.Empty() {
		return nil, domainerrors.ErrNotFound
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.DocumentType != nil {
		updates["document_type"] = string(*input.DocumentType)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Files != nil {
		updates["files"] = datatypes.NewJSONSlice(nonNilFiles(*input.Files))
	}

	result := conn(ctx, r.db).Model(&models.Document{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error, documentConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// List lists documents, newest first
func (r *DocumentRepository) List(ctx context.Context, filter entities.DocumentFilter) ([]*entities.Document, int64, error) {
	query := conn(ctx, r.db).Model(&models.Document{})
	if filter.PatientID != nil {
		query = query.Where("documents.patient_id = ?", *filter.PatientID)
	}
	if filter.ProviderID != nil {
		query = query.Where("documents.provider_id = ?", *filter.ProviderID)
	}
	if filter.AppointmentID != nil {
		query = query.Where("documents.appointment_id = ?", *filter.AppointmentID)
	}
	if filter.DocumentType != "" {
		query = query.Where("documents.document_type = ?", filter.DocumentType)
	}

	var ms []models.Document
	total, err := listPage(query, filter.PaginationParams, &ms, func(q *gorm.DB) *gorm.DB {
		return withParties(q, "documents").Order("documents.created_at DESC")
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Document, 0, len(ms))
	for i := range ms {
		out = append(out, toDocumentEntity(&ms[i]))
	}
	return out, total, nil
}

// Delete hard deletes a document row. Stored files are removed by the caller.
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.Document, error) {
	d, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := conn(ctx, r.db).Delete(&models.Document{}, "id = ?", id)
	if result.Error != nil {
		return nil, translateError(result.Error, documentConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return d, nil
}

func toDocumentEntity(m *models.Document) *entities.Document {
	return &entities.Document{
		ID:            m.ID,
		PatientID:     m.PatientID,
		ProviderID:    m.ProviderID,
		AppointmentID: m.AppointmentID,
		Title:         m.Title,
		DocumentType:  entities.DocumentType(m.DocumentType),
		Description:   m.Description,
		Files:         nonNilFiles(m.Files),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		PatientName:   fullName(m.PatientFirstName, m.PatientLastName),
		ProviderName:  fullName(m.ProviderFirstName, m.ProviderLastName),
	}
}
