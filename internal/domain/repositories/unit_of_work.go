package repositories

import "context"

// UnitOfWork groups several repository writes into one database transaction.
// Repositories called with the ctx handed to fn join that transaction; provider
// creation uses it so the provider row and its initial fee schedule land together.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(txCtx context.Context) error) error
}
