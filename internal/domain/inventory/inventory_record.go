package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/inventory/backend/internal/domain/shared"
)

// InventoryRecord tracks stock for one (product, store) pair as three
// counters. The invariant total = available + reserved holds after every
// committed mutation, and no counter goes negative.
//
// Counter mutations do not go through this struct: the repository applies
// deltas in a single version-guarded UPDATE. The methods here validate
// intended transitions against a loaded snapshot.
type InventoryRecord struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_store" json:"product_id"`
	StoreID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_store" json:"store_id"`
	Total     int       `gorm:"not null;default:0" json:"total_quantity"`
	Available int       `gorm:"not null;default:0" json:"available_quantity"`
	Reserved  int       `gorm:"not null;default:0" json:"reserved_quantity"`
	Version   int       `gorm:"not null;default:1" json:"version"`
}

// TableName returns the table name for GORM
func (InventoryRecord) TableName() string {
	return "inventory"
}

// NewInventoryRecord creates a record with the full quantity available.
func NewInventoryRecord(productID, storeID uuid.UUID, quantity int) (*InventoryRecord, error) {
	if quantity < 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Initial quantity cannot be negative")
	}
	return &InventoryRecord{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		StoreID:    storeID,
		Total:      quantity,
		Available:  quantity,
		Reserved:   0,
		Version:    1,
	}, nil
}

// CheckInvariants verifies the counter identity and non-negativity.
func (r *InventoryRecord) CheckInvariants() error {
	if r.Total < 0 || r.Available < 0 || r.Reserved < 0 {
		return shared.NewDomainError(shared.CodeBusinessRule,
			fmt.Sprintf("Negative inventory counter for product %s store %s", r.ProductID, r.StoreID))
	}
	if r.Total != r.Available+r.Reserved {
		return shared.NewDomainError(shared.CodeBusinessRule,
			fmt.Sprintf("Inventory counters out of balance for product %s store %s", r.ProductID, r.StoreID))
	}
	return nil
}

// CanReserve reports whether quantity units can be reserved from the
// loaded snapshot.
func (r *InventoryRecord) CanReserve(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError(shared.CodeValidation, "Quantity must be positive")
	}
	if r.Available < quantity {
		return shared.NewDomainErrorWithDetails(shared.CodeInsufficientStock,
			fmt.Sprintf("Insufficient stock: requested %d, available %d", quantity, r.Available),
			map[string]any{"requested": quantity, "available": r.Available})
	}
	return nil
}

// CanAdjust reports whether applying delta to available stock keeps it
// non-negative.
func (r *InventoryRecord) CanAdjust(delta int) error {
	if r.Available+delta < 0 {
		return shared.NewDomainError(shared.CodeBusinessRule, "Stock cannot go below zero")
	}
	return nil
}

// CounterDelta describes a counter mutation applied atomically by the
// repository, guarded by the version the caller loaded.
type CounterDelta struct {
	Available int
	Reserved  int
	Total     int
}

// Deltas for each reservation lifecycle transition.
func ReserveDelta(q int) CounterDelta { return CounterDelta{Available: -q, Reserved: q} }
func ConsumeDelta(q int) CounterDelta { return CounterDelta{Reserved: -q, Total: -q} }
func ReleaseDelta(q int) CounterDelta { return CounterDelta{Available: q, Reserved: -q} }
func AdjustDelta(d int) CounterDelta  { return CounterDelta{Available: d, Total: d} }
