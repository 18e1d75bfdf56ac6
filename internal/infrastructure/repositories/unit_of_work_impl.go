package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	domainRepos "smilecare.backend/internal/domain/repositories"
)

type txContextKey struct{}

var commitTx = func(tx *gorm.DB) error {
	return tx.Commit().Error
}

// GormUnitOfWork runs repository calls inside one gorm transaction carried by ctx
type GormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) domainRepos.UnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Do commits when fn returns nil and rolls back on an error or a panic.
// A nested Do joins the transaction already carried by ctx, so the outermost call owns the commit.
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	if InTransaction(ctx) {
		return fn(ctx)
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txContextKey{}, tx)); err != nil {
		tx.Rollback()
		return err
	}
	if err = commitTx(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (u *GormUnitOfWork) GetDB(ctx context.Context) *gorm.DB {
	return GetDB(ctx, u.db)
}

// InTransaction reports whether ctx came from a running Do
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txContextKey{}).(*gorm.DB)
	return ok
}

// GetDB returns the transaction carried by ctx, or fallback outside of Do
func GetDB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}
