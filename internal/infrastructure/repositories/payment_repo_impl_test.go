package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
)

func TestPaymentRepository_CRUDAndPaidAt(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	createPaymentTable(t, db)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	patient := seedUser(t, db, entities.UserRolePatient, "Pay", "Er")
	provider := seedUser(t, db, entities.UserRoleProvider, "Doc", "Fee")

	pending := &entities.Payment{PatientID: patient.ID, ProviderID: provider.ID, Amount: decimal.RequireFromString("49.99"), Method: entities.PaymentMethodCard, Currency: "usd"}
	require.NoError(t, repo.Create(ctx, pending))
	require.Equal(t, entities.PaymentStatusPending, pending.Status)
	require.Equal(t, "USD", pending.Currency)
	require.False(t, pending.PaidAt.Valid)

	paid := &entities.Payment{PatientID: patient.ID, ProviderID: provider.ID, Amount: decimal.NewFromInt(20), Method: entities.PaymentMethodCash, Status: entities.PaymentStatusCompleted}
	require.NoError(t, repo.Create(ctx, paid))
	require.True(t, paid.PaidAt.Valid)

	got, err := repo.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	require.True(t, got.Amount.Equal(decimal.RequireFromString("49.99")))
	require.Equal(t, "Pay Er", got.PatientName)

	completed := entities.PaymentStatusCompleted
	updated, err := repo.Update(ctx, pending.ID, &entities.PaymentUpdate{Status: &completed})
	require.NoError(t, err)
	require.Equal(t, entities.PaymentStatusCompleted, updated.Status)
	require.True(t, updated.PaidAt.Valid)

	items, total, err := repo.List(ctx, entities.PaymentFilter{Method: "cash"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, paid.ID, items[0].ID)

	_, total, err = repo.List(ctx, entities.PaymentFilter{PatientID: &patient.ID, Status: "completed"})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	deleted, err := repo.Delete(ctx, paid.ID)
	require.NoError(t, err)
	require.Equal(t, paid.ID, deleted.ID)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
