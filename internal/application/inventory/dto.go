package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/inventory/backend/internal/domain/inventory"
)

// ReserveCommand carries the input for a stock reservation
type ReserveCommand struct {
	OrderID   string
	ProductID uuid.UUID
	StoreID   uuid.UUID
	Quantity  int
	TTL       time.Duration // zero means the configured default
}

// UpdateStockCommand carries a direct stock adjustment
type UpdateStockCommand struct {
	ProductID uuid.UUID
	StoreID   uuid.UUID
	Delta     int
}

// ReservationResult is the outcome of a reservation lifecycle operation
type ReservationResult struct {
	ReservationID uuid.UUID                   `json:"reservation_id"`
	OrderID       string                      `json:"order_id"`
	ProductID     uuid.UUID                   `json:"product_id"`
	StoreID       uuid.UUID                   `json:"store_id"`
	Quantity      int                         `json:"quantity"`
	Status        inventory.ReservationStatus `json:"status"`
	ExpiresAt     time.Time                   `json:"expires_at"`
}

// NewReservationResult builds a result from a reservation
func NewReservationResult(res *inventory.Reservation) *ReservationResult {
	return &ReservationResult{
		ReservationID: res.ID,
		OrderID:       res.OrderID,
		ProductID:     res.ProductID,
		StoreID:       res.StoreID,
		Quantity:      res.Quantity,
		Status:        res.Status,
		ExpiresAt:     res.ExpiresAt,
	}
}

// StockView is a read model of one inventory record
type StockView struct {
	ProductID   uuid.UUID `json:"product_id"`
	StoreID     uuid.UUID `json:"store_id"`
	ProductName string    `json:"product_name,omitempty"`
	StoreName   string    `json:"store_name,omitempty"`
	Total       int       `json:"total_quantity"`
	Available   int       `json:"available_quantity"`
	Reserved    int       `json:"reserved_quantity"`
	Version     int       `json:"version"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewStockView builds a view from a record
func NewStockView(rec *inventory.InventoryRecord) StockView {
	return StockView{
		ProductID: rec.ProductID,
		StoreID:   rec.StoreID,
		Total:     rec.Total,
		Available: rec.Available,
		Reserved:  rec.Reserved,
		Version:   rec.Version,
		UpdatedAt: rec.UpdatedAt,
	}
}
