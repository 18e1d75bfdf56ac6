package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/infrastructure/models"
)

const providerConflictMessage = "Provider profile already exists or license number is already registered"

// ProviderRepository implements provider profile operations
type ProviderRepository struct {
	db *gorm.DB
}

// NewProviderRepository creates a new provider repository
func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

// Create creates a provider profile
func (r *ProviderRepository) Create(ctx context.Context, p *entities.Provider) error {
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	m := &models.Provider{
		UserID:          p.UserID,
		Specialization:  p.Specialization,
		LicenseNumber:   p.LicenseNumber,
		ClinicName:      p.ClinicName,
		ClinicAddress:   p.ClinicAddress,
		ExperienceYears: p.ExperienceYears,
		Bio:             p.Bio,
		ConsultationFee: p.ConsultationFee,
		Specialties:     pq.StringArray(nonNilStrings(p.Specialties)),
		Languages:       pq.StringArray(nonNilStrings(p.Languages)),
		ClinicPhotos:    datatypes.NewJSONSlice(nonNilFiles(p.ClinicPhotos)),
		IsAvailable:     p.IsAvailable,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return translateError(conn(ctx, r.db).Omit("User").Create(m).Error, providerConflictMessage)
}

// GetByUserID gets a provider by its user id
func (r *ProviderRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Provider, error) {
	var m models.Provider
	err := r.withUser(conn(ctx, r.db).Model(&models.Provider{})).
		Where("providers.user_id = ?", userID).
		Take(&m).Error
	if err != nil {
		return nil, translateError(err, providerConflictMessage)
	}
	return toProviderEntity(&m), nil
}

// Update applies the supplied columns
func (r *ProviderRepository) Update(ctx context.Context, userID uuid.UUID, input *entities.ProviderUpdate) (*entities.Provider, error) {
	if input == nil || input.Empty() {
		return nil, domainerrors.ErrNotFound
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if input.Specialization != nil {
		updates["specialization"] = *input.Specialization
	}
	if input.LicenseNumber != nil {
		updates["license_number"] = *input.LicenseNumber
	}
	if input.ClinicName != nil {
		updates["clinic_name"] = *input.ClinicName
	}
	if input.ClinicAddress != nil {
		updates["clinic_address"] = *input.ClinicAddress
	}
	if input.ExperienceYears != nil {
		updates["experience_years"] = *input.ExperienceYears
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.ConsultationFee != nil {
		updates["consultation_fee"] = *input.ConsultationFee
	}
	if input.Specialties != nil {
		updates["specialties"] = pq.StringArray(nonNilStrings(*input.Specialties))
	}
	if input.Languages != nil {
		updates["languages"] = pq.StringArray(nonNilStrings(*input.Languages))
	}
	if input.ClinicPhotos != nil {
		updates["clinic_photos"] = datatypes.NewJSONSlice(nonNilFiles(*input.ClinicPhotos))
	}
	if input.IsAvailable != nil {
		updates["is_available"] = *input.IsAvailable
	}

	result := conn(ctx, r.db).Model(&models.Provider{}).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error, providerConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByUserID(ctx, userID)
}

// List lists providers with their user names
func (r *ProviderRepository) List(ctx context.Context, filter entities.ProviderFilter) ([]*entities.Provider, int64, error) {
	query := conn(ctx, r.db).Model(&models.Provider{}).
		Joins("JOIN users ON users.id = providers.user_id")

	if filter.Specialization != "" {
		query = query.Where("LOWER(providers.specialization) = LOWER(?)", filter.Specialization)
	}
	if filter.IsAvailable != nil {
		query = query.Where("providers.is_available = ?", *filter.IsAvailable)
	}
	if filter.Search != "" {
		cond, args := searchCondition(filter.Search, "users.first_name", "users.last_name", "providers.specialization", "providers.clinic_name")
		query = query.Where(cond, args...)
	}

	var ms []models.Provider
	total, err := listPage(query, filter.PaginationParams, &ms, func(q *gorm.DB) *gorm.DB {
		return q.Select(providerColumns).Order("providers.created_at DESC")
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Provider, 0, len(ms))
	for i := range ms {
		out = append(out, toProviderEntity(&ms[i]))
	}
	return out, total, nil
}

// Delete hard deletes a provider profile
func (r *ProviderRepository) Delete(ctx context.Context, userID uuid.UUID) (*entities.Provider, error) {
	p, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := conn(ctx, r.db).Delete(&models.Provider{}, "user_id = ?", userID)
	if result.Error != nil {
		return nil, translateError(result.Error, providerConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return p, nil
}

const providerColumns = "providers.*, users.first_name, users.last_name, users.email, users.mobile_number, users.profile_picture"

func (r *ProviderRepository) withUser(q *gorm.DB) *gorm.DB {
	return q.Select(providerColumns).Joins("JOIN users ON users.id = providers.user_id")
}

func toProviderEntity(m *models.Provider) *entities.Provider {
	return &entities.Provider{
		UserID:          m.UserID,
		Specialization:  m.Specialization,
		LicenseNumber:   m.LicenseNumber,
		ClinicName:      m.ClinicName,
		ClinicAddress:   m.ClinicAddress,
		ExperienceYears: m.ExperienceYears,
		Bio:             m.Bio,
		ConsultationFee: m.ConsultationFee,
		Specialties:     nonNilStrings(m.Specialties),
		Languages:       nonNilStrings(m.Languages),
		ClinicPhotos:    nonNilFiles(m.ClinicPhotos),
		IsAvailable:     m.IsAvailable,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Email:           derefString(m.Email),
		MobileNumber:    derefString(m.MobileNumber),
		ProfilePicture:  derefString(m.ProfilePicture),
	}
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func nonNilFiles(in []entities.FileMeta) []entities.FileMeta {
	if in == nil {
		return []entities.FileMeta{}
	}
	return in
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
