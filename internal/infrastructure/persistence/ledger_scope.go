package persistence

import (
	"context"

	appinv "github.com/inventory/backend/internal/application/inventory"
	"github.com/inventory/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to the ledger repositories
// within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// InventoryRepo returns the inventory repository scoped to the current transaction.
func (r *gormTransactionalRepositories) InventoryRepo() inventory.InventoryRepository {
	return NewGormInventoryRepository(r.tx)
}

// ReservationRepo returns the reservation repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ReservationRepo() inventory.ReservationRepository {
	return NewGormReservationRepository(r.tx)
}

var _ appinv.TransactionScope = (*GormTransactionScope)(nil)
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
