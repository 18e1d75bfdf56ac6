package usecases

import (
	"context"

	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/domain/repositories"
)

// DocumentUsecase handles clinical documents and their files
type DocumentUsecase struct {
	documentRepo repositories.DocumentRepository
}

// NewDocumentUsecase creates a new document usecase
func NewDocumentUsecase(documentRepo repositories.DocumentRepository) *DocumentUsecase {
	return &DocumentUsecase{documentRepo: documentRepo}
}

// List returns documents visible to the actor
func (u *DocumentUsecase) List(ctx context.Context, actor *entities.User, filter entities.DocumentFilter) ([]*entities.Document, int64, error) {
	scopeToActor(actor, &filter.PatientID, &filter.ProviderID)
	return u.documentRepo.List(ctx, filter)
}

// GetByID returns a document the actor may see
func (u *DocumentUsecase) GetByID(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.Document, error) {
	document, err := u.documentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccessCareRecord(actor, document.PatientID, document.ProviderID) {
		return nil, domainerrors.ErrForbidden
	}
	return document, nil
}

// Create stores a document with already uploaded files
func (u *DocumentUsecase) Create(ctx context.Context, actor *entities.User, input *entities.NewDocument) (*entities.Document, error) {
	switch actor.UserType {
	case entities.UserRolePatient:
		input.PatientID = actor.ID
	case entities.UserRoleProvider:
		id := actor.ID
		input.ProviderID = &id
	}
	if input.PatientID == uuid.Nil {
		return nil, domainerrors.BadRequest("patientId is required")
	}
	if len(input.Files) == 0 {
		return nil, domainerrors.BadRequest("At least one file is required")
	}

	document := &entities.Document{
		PatientID:     input.PatientID,
		ProviderID:    input.ProviderID,
		AppointmentID: input.AppointmentID,
		Title:         input.Title,
		DocumentType:  input.DocumentType,
		Description:   input.Description,
		Files:         input.Files,
	}
	if err := u.documentRepo.Create(ctx, document); err != nil {
		return nil, err
	}
	return u.documentRepo.GetByID(ctx, document.ID)
}

// Update edits a document. New files are appended or replace the set depending on mode.
// Files dropped from the set are returned for removal from storage.
func (u *DocumentUsecase) Update(ctx context.Context, actor *entities.User, id uuid.UUID, input *entities.DocumentUpdate, files []entities.FileMeta, mode entities.FileMode) (*entities.Document, []entities.FileMeta, error) {
	current, err := u.GetByID(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}

	var removed []entities.FileMeta
	if len(files) > 0 {
		next, dropped := mergeFiles(current.Files, files, mode)
		if len(next) > 10 {
			return nil, nil, domainerrors.BadRequest("A document can have at most 10 files")
		}
		input.Files = &next
		removed = dropped
	}

	document, err := u.documentRepo.Update(ctx, id, input)
	if err != nil {
		return nil, nil, err
	}
	return document, removed, nil
}

// Delete removes a document. Its files are returned for removal from storage.
func (u *DocumentUsecase) Delete(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.Document, error) {
	if _, err := u.GetByID(ctx, actor, id); err != nil {
		return nil, err
	}
	return u.documentRepo.Delete(ctx, id)
}
