package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/infrastructure/models"
	"smilecare.backend/pkg/utils"
)

const paymentConflictMessage = "Payment already recorded"

// PaymentRepository implements payment operations
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create records a payment
func (r *PaymentRepository) Create(ctx context.Context, p *entities.Payment) error {
	now := time.Now()
	if p.ID == uuid.Nil {
		p.ID = utils.GenerateUUIDv7()
	}
	if p.Status == "" {
		p.Status = entities.PaymentStatusPending
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	p.Currency = strings.ToUpper(p.Currency)
	if p.Status == entities.PaymentStatusCompleted && !p.PaidAt.Valid {
		p.PaidAt = null.TimeFrom(now)
	}
	p.CreatedAt, p.UpdatedAt = now, now

	m := &models.Payment{
		ID:             p.ID,
		PatientID:      p.PatientID,
		ProviderID:     p.ProviderID,
		AppointmentID:  p.AppointmentID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Method:         string(p.Method),
		Status:         string(p.Status),
		TransactionRef: p.TransactionRef,
		PaidAt:         p.PaidAt.Ptr(),
		Notes:          p.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return translateError(conn(ctx, r.db).Create(m).Error, paymentConflictMessage)
}

// GetByID gets a payment with party names
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	var m models.Payment
	err := withParties(conn(ctx, r.db).Model(&models.Payment{}), "payments").
		Where("payments.id = ?", id).
		Take(&m).Error
	if err != nil {
		return nil, translateError(err, paymentConflictMessage)
	}
	return toPaymentEntity(&m), nil
}

// Update applies the supplied columns.
// Moving to completed stamps paid_at unless the caller supplied one.
func (r *PaymentRepository) Update(ctx context.Context, id uuid.UUID, input *entities.PaymentUpdate) (*entities.Payment, error) {
	if input == nil || input.Empty() {
		return nil, domainerrors.ErrNotFound
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	if input.Amount != nil {
		updates["amount"] = *input.Amount
	}
	if input.Method != nil {
		updates["method"] = string(*input.Method)
	}
	if input.Status != nil {
		updates["status"] = string(*input.Status)
		if *input.Status == entities.PaymentStatusCompleted && input.PaidAt == nil {
			updates["paid_at"] = gorm.Expr("COALESCE(paid_at, ?)", now)
		}
	}
	if input.TransactionRef != nil {
		updates["transaction_ref"] = *input.TransactionRef
	}
	if input.PaidAt != nil {
		updates["paid_at"] = *input.PaidAt
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	result := conn(ctx, r.db).Model(&models.Payment{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error, paymentConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// List lists payments, newest first
func (r *PaymentRepository) List(ctx context.Context, filter entities.PaymentFilter) ([]*entities.Payment, int64, error) {
	query := conn(ctx, r.db).Model(&models.Payment{})
	if filter.PatientID != nil {
		query = query.Where("payments.patient_id = ?", *filter.PatientID)
	}
	if filter.ProviderID != nil {
		query = query.Where("payments.provider_id = ?", *filter.ProviderID)
	}
	if filter.AppointmentID != nil {
		query = query.Where("payments.appointment_id = ?", *filter.AppointmentID)
	}
	if filter.Status != "" {
		query = query.Where("payments.status = ?", filter.Status)
	}
	if filter.Method != "" {
		query = query.Where("payments.method = ?", filter.Method)
	}
	if filter.DateFrom != nil {
		query = query.Where("payments.created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("payments.created_at <= ?", *filter.DateTo)
	}

	var ms []models.Payment
	total, err := listPage(query, filter.PaginationParams, &ms, func(q *gorm.DB) *gorm.DB {
		return withParties(q, "payments").Order("payments.created_at DESC")
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Payment, 0, len(ms))
	for i := range ms {
		out = append(out, toPaymentEntity(&ms[i]))
	}
	return out, total, nil
}

// Delete hard deletes a payment
func (r *PaymentRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := conn(ctx, r.db).Delete(&models.Payment{}, "id = ?", id)
	if result.Error != nil {
		return nil, translateError(result.Error, paymentConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return p, nil
}

func toPaymentEntity(m *models.Payment) *entities.Payment {
	return &entities.Payment{
		ID:             m.ID,
		PatientID:      m.PatientID,
		ProviderID:     m.ProviderID,
		AppointmentID:  m.AppointmentID,
		Amount:         m.Amount,
		Currency:       m.Currency,
		Method:         entities.PaymentMethod(m.Method),
		Status:         entities.PaymentStatus(m.Status),
		TransactionRef: m.TransactionRef,
		PaidAt:         null.TimeFromPtr(m.PaidAt),
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		PatientName:    fullName(m.PatientFirstName, m.PatientLastName),
		ProviderName:   fullName(m.ProviderFirstName, m.ProviderLastName),
	}
}
