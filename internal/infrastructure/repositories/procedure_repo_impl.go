package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/infrastructure/models"
	"smilecare.backend/pkg/utils"
)

const (
	procedureConflictMessage = "Procedure name or code already exists"
	feeConflictMessage       = "Fee for this procedure already exists"
)

// ProcedureRepository implements procedure catalogue operations
type ProcedureRepository struct {
	db *gorm.DB
}

// NewProcedureRepository creates a new procedure repository
func NewProcedureRepository(db *gorm.DB) *ProcedureRepository {
	return &ProcedureRepository{db: db}
}

// Create creates a procedure
func (r *ProcedureRepository) Create(ctx context.Context, p *entities.Procedure) error {
	now := time.Now()
	if p.ID == uuid.Nil {
		p.ID = utils.GenerateUUIDv7()
	}
	p.CreatedAt, p.UpdatedAt = now, now

	m := &models.Procedure{
		ID:              p.ID,
		Name:            p.Name,
		Code:            p.Code,
		Description:     p.Description,
		DefaultFee:      p.DefaultFee,
		DurationMinutes: p.DurationMinutes,
		IsActive:        p.IsActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return translateError(conn(ctx, r.db).Create(m).Error, procedureConflictMessage)
}

// GetByID gets a procedure by ID
func (r *ProcedureRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Procedure, error) {
	var m models.Procedure
	if err := conn(ctx, r.db).Where("id = ?", id).Take(&m).Error; err != nil {
		return nil, translateError(err, procedureConflictMessage)
	}
	return toProcedureEntity(&m), nil
}

// Update applies the supplied columns
func (r *ProcedureRepository) Update(ctx context.Context, id uuid.UUID, input *entities.ProcedureUpdate) (*entities.Procedure, error) {
	if input == nil || input.Empty() {
		return nil, domainerrors.ErrNotFound
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Code != nil {
		updates["code"] = *input.Code
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.DefaultFee != nil {
		updates["default_fee"] = *input.DefaultFee
	}
	if input.DurationMinutes != nil {
		updates["duration_minutes"] = *input.DurationMinutes
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	result := conn(ctx, r.db).Model(&models.Procedure{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error, procedureConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// List lists procedures by name
func (r *ProcedureRepository) List(ctx context.Context, filter entities.ProcedureFilter) ([]*entities.Procedure, int64, error) {
	query := conn(ctx, r.db).Model(&models.Procedure{})
	if filter.IsActive != nil {
		query = query.Where("procedures.is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		cond, args := searchCondition(filter.Search, "procedures.name", "procedures.code", "procedures.description")
		query = query.Where(cond, args...)
	}

	var ms []models.Procedure
	total, err := listPage(query, filter.PaginationParams, &ms, func(q *gorm.DB) *gorm.DB {
		return q.Order("procedures.name ASC")
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Procedure, 0, len(ms))
	for i := range ms {
		out = append(out, toProcedureEntity(&ms[i]))
	}
	return out, total, nil
}

// Delete hard deletes a procedure
func (r *ProcedureRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.Procedure, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := conn(ctx, r.db).Delete(&models.Procedure{}, "id = ?", id)
	if result.Error != nil {
		return nil, translateError(result.Error, procedureConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return p, nil
}

func toProcedureEntity(m *models.Procedure) *entities.Procedure {
	return &entities.Procedure{
		ID:              m.ID,
		Name:            m.Name,
		Code:            m.Code,
		Description:     m.Description,
		DefaultFee:      m.DefaultFee,
		DurationMinutes: m.DurationMinutes,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ProviderFeeRepository implements provider procedure fee operations
type ProviderFeeRepository struct {
	db *gorm.DB
}

// NewProviderFeeRepository creates a new provider fee repository
func NewProviderFeeRepository(db *gorm.DB) *ProviderFeeRepository {
	return &ProviderFeeRepository{db: db}
}

// Upsert inserts a fee or overwrites the existing one for the same provider and procedure
func (r *ProviderFeeRepository) Upsert(ctx context.Context, fee *entities.ProviderProcedureFee) error {
	now := time.Now()
	m := &models.ProviderProcedureFee{
		ID:          utils.GenerateUUIDv7(),
		ProviderID:  fee.ProviderID,
		ProcedureID: fee.ProcedureID,
		Fee:         fee.Fee,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := conn(ctx, r.db).Omit("Provider", "Procedure").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_id"}, {Name: "procedure_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"fee", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return translateError(err, feeConflictMessage)
	}

	stored, err := r.first(ctx, "provider_procedure_fees.provider_id = ? AND provider_procedure_fees.procedure_id = ?", fee.ProviderID, fee.ProcedureID)
	if err != nil {
		return err
	}
	*fee = *stored
	return nil
}

// GetByID gets a fee by ID
func (r *ProviderFeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ProviderProcedureFee, error) {
	return r.first(ctx, "provider_procedure_fees.id = ?", id)
}

// List lists fees with the procedure name and code
func (r *ProviderFeeRepository) List(ctx context.Context, filter entities.FeeFilter) ([]*entities.ProviderProcedureFee, int64, error) {
	query := conn(ctx, r.db).Model(&models.ProviderProcedureFee{})
	if filter.ProviderID != nil {
		query = query.Where("provider_procedure_fees.provider_id = ?", *filter.ProviderID)
	}
	if filter.ProcedureID != nil {
		query = query.Where("provider_procedure_fees.procedure_id = ?", *filter.ProcedureID)
	}

	var ms []models.ProviderProcedureFee
	total, err := listPage(query, filter.PaginationParams, &ms, func(q *gorm.DB) *gorm.DB {
		return withProcedure(q).Order("procedures.name ASC")
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.ProviderProcedureFee, 0, len(ms))
	for i := range ms {
		out = append(out, toFeeEntity(&ms[i]))
	}
	return out, total, nil
}

// Delete hard deletes a fee
func (r *ProviderFeeRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.ProviderProcedureFee, error) {
	fee, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := conn(ctx, r.db).Delete(&models.ProviderProcedureFee{}, "id = ?", id)
	if result.Error != nil {
		return nil, translateError(result.Error, feeConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return fee, nil
}

func (r *ProviderFeeRepository) first(ctx context.Context, where string, args ...interface{}) (*entities.ProviderProcedureFee, error) {
	var m models.ProviderProcedureFee
	err := withProcedure(conn(ctx, r.db).Model(&models.ProviderProcedureFee{})).
		Where(where, args...).
		Take(&m).Error
	if err != nil {
		return nil, translateError(err, feeConflictMessage)
	}
	return toFeeEntity(&m), nil
}

func withProcedure(q *gorm.DB) *gorm.DB {
	return q.Select("provider_procedure_fees.*, procedures.name AS procedure_name, procedures.code AS procedure_code").
		Joins("LEFT JOIN procedures ON procedures.id = provider_procedure_fees.procedure_id")
}

func toFeeEntity(m *models.ProviderProcedureFee) *entities.ProviderProcedureFee {
	return &entities.ProviderProcedureFee{
		ID:            m.ID,
		ProviderID:    m.ProviderID,
		ProcedureID:   m.ProcedureID,
		Fee:           m.Fee,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		ProcedureName: m.ProcedureName,
		ProcedureCode: m.ProcedureCode,
	}
}
