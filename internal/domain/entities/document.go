package entities

import (
	"time"

	"github.com/google/uuid"
	"smilecare.backend/pkg/utils"
)

// DocumentType classifies clinical documents
type DocumentType string

const (
	DocumentXRay         DocumentType = "xray"
	DocumentPrescription DocumentType = "prescription"
	DocumentReport       DocumentType = "report"
	DocumentInvoice      DocumentType = "invoice"
	DocumentConsent      DocumentType = "consent"
	DocumentOther        DocumentType = "other"
)

// FileMode selects how an update treats existing files
type FileMode string

const (
	FileModeReplace FileMode = "replace"
	FileModeAppend  FileMode = "append"
)

// ParseFileMode defaults to replace
func ParseFileMode(s string) (FileMode, bool) {
	switch FileMode(s) {
	case "", FileModeReplace:
		return FileModeReplace, true
	case FileModeAppend:
		return FileModeAppend, true
	}
	return "", false
}

// Document is a set of files attached to a patient record
type Document struct {
	ID            uuid.UUID    `json:"id"`
	PatientID     uuid.UUID    `json:"patientId"`
	ProviderID    *uuid.UUID   `json:"providerId,omitempty"`
	AppointmentID *uuid.UUID   `json:"appointmentId,omitempty"`
	Title         string       `json:"title"`
	DocumentType  DocumentType `json:"documentType"`
	Description   string       `json:"description"`
	Files         []FileMeta   `json:"files"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`

	PatientName  string `json:"patientName,omitempty"`
	ProviderName string `json:"providerName,omitempty"`
}

// CreateDocumentInput represents the form fields of a document upload.
// Ids arrive as strings and are parsed by the handler.
type CreateDocumentInput struct {
	PatientID     string       `form:"patientId"`
	ProviderID    string       `form:"providerId"`
	AppointmentID string       `form:"appointmentId"`
	Title         string       `form:"title" binding:"required,max=200"`
	DocumentType  DocumentType `form:"documentType" binding:"required,oneof=xray prescription report invoice consent other"`
	Description   string       `form:"description"`
}

// NewDocument holds a validated document ready to be stored
type NewDocument struct {
	PatientID     uuid.UUID
	ProviderID    *uuid.UUID
	AppointmentID *uuid.UUID
	Title         string
	DocumentType  DocumentType
	Description   string
	Files         []FileMeta
}

// DocumentUpdate lists updatable document columns
type DocumentUpdate struct {
	Title        *string       `form:"title" binding:"omitempty,max=200"`
	DocumentType *DocumentType `form:"documentType" binding:"omitempty,oneof=xray prescription report invoice consent other"`
	Description  *string       `form:"description"`
	Files        *[]FileMeta   `form:"-"`
}

// Empty reports whether no column was supplied
func (u DocumentUpdate) Empty() bool {
	return u.Title == nil && u.DocumentType == nil && u.Description == nil && u.Files == nil
}

// DocumentFilter holds list filters for documents
type DocumentFilter struct {
	utils.PaginationParams
	PatientID     *uuid.UUID
	ProviderID    *uuid.UUID
	AppointmentID *uuid.UUID
	DocumentType  string
}
