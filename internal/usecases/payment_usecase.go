package usecases

import (
	"context"

	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/domain/repositories"
)

// PaymentUsecase handles treatment payments
type PaymentUsecase struct {
	paymentRepo repositories.PaymentRepository
}

// NewPaymentUsecase creates a new payment usecase
func NewPaymentUsecase(paymentRepo repositories.PaymentRepository) *PaymentUsecase {
	return &PaymentUsecase{paymentRepo: paymentRepo}
}

// List returns payments visible to the actor
func (u *PaymentUsecase) List(ctx context.Context, actor *entities.User, filter entities.PaymentFilter) ([]*entities.Payment, int64, error) {
	scopeToActor(actor, &filter.PatientID, &filter.ProviderID)
	return u.paymentRepo.List(ctx, filter)
}

// GetByID returns a payment the actor takes part in
func (u *PaymentUsecase) GetByID(ctx context.Context, actor *entities.User, id uuid.UUID) (*entities.Payment, error) {
	payment, err := u.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccessCareRecord(actor, payment.PatientID, &payment.ProviderID) {
		return nil, domainerrors.ErrForbidden
	}
	return payment, nil
}

// Create records a payment. Providers may only record payments made to them.
func (u *PaymentUsecase) Create(ctx context.Context, actor *entities.User, input *entities.CreatePaymentInput) (*entities.Payment, error) {
	if actor.UserType == entities.UserRoleProvider && input.ProviderID != actor.ID {
		return nil, domainerrors.Forbidden("Providers can only record their own payments")
	}
	if !input.Amount.IsPositive() {
		return nil, domainerrors.BadRequest("Amount must be greater than zero")
	}

	status := input.Status
	if status == "" {
		status = entities.PaymentStatusPending
	}
	payment := &entities.Payment{
		PatientID:      input.PatientID,
		ProviderID:     input.ProviderID,
		AppointmentID:  input.AppointmentID,
		Amount:         input.Amount,
		Currency:       input.Currency,
		Method:         input.Method,
		Status:         status,
		TransactionRef: input.TransactionRef,
		Notes:          input.Notes,
	}
	if err := u.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return u.paymentRepo.GetByID(ctx, payment.ID)
}

// Update edits a payment
func (u *PaymentUsecase) Update(ctx context.Context, id uuid.UUID, input *entities.PaymentUpdate) (*entities.Payment, error) {
	if input.Amount != nil && !input.Amount.IsPositive() {
		return nil, domainerrors.BadRequest("Amount must be greater than zero")
	}
	return u.paymentRepo.Update(ctx, id, input)
}

// Delete removes a payment
func (u *PaymentUsecase) Delete(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	return u.paymentRepo.Delete(ctx, id)
}
