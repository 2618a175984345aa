package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InventoryRepository provides access to inventory counter records.
//
// ApplyDelta is the single statement through which reservation and stock
// paths mutate counters: one conditional UPDATE guarded by the version the
// caller loaded. It returns OPTIMISTIC_LOCK_CONFLICT when the guard misses.
type InventoryRepository interface {
	FindByProductAndStore(ctx context.Context, productID, storeID uuid.UUID) (*InventoryRecord, error)
	FindAll(ctx context.Context) ([]InventoryRecord, error)
	FindByStore(ctx context.Context, storeID uuid.UUID) ([]InventoryRecord, error)
	Create(ctx context.Context, record *InventoryRecord) error
	ApplyDelta(ctx context.Context, productID, storeID uuid.UUID, expectedVersion int, delta CounterDelta) error
}

// ReservationRepository provides access to reservations
type ReservationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]Reservation, error)
	Create(ctx context.Context, reservation *Reservation) error
	Save(ctx context.Context, reservation *Reservation) error
}

// EventRecordRepository appends published envelopes for auditing
type EventRecordRepository interface {
	Append(ctx context.Context, record *EventRecord) error
}
