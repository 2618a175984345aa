package inventory

import (
	"context"

	"github.com/inventory/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories within
// a transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// InventoryRepo returns the inventory repository scoped to the current transaction
	InventoryRepo() inventory.InventoryRepository
	// ReservationRepo returns the reservation repository scoped to the current transaction
	ReservationRepo() inventory.ReservationRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests that run against plain repositories.
type NoOpTransactionScope struct {
	inventoryRepo   inventory.InventoryRepository
	reservationRepo inventory.ReservationRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	inventoryRepo inventory.InventoryRepository,
	reservationRepo inventory.ReservationRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		inventoryRepo:   inventoryRepo,
		reservationRepo: reservationRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InventoryRepo returns the inventory repository.
func (s *NoOpTransactionScope) InventoryRepo() inventory.InventoryRepository {
	return s.inventoryRepo
}

// ReservationRepo returns the reservation repository.
func (s *NoOpTransactionScope) ReservationRepo() inventory.ReservationRepository {
	return s.reservationRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
