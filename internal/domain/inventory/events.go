package inventory

import (
	"github.com/inventory/backend/internal/domain/shared"
)

// Event types published to the inventory_events channel
const (
	EventReservationCreated   = "reservation_created"
	EventReservationConfirmed = "reservation_confirmed"
	EventReservationConsumed  = "reservation_consumed"
	EventReservationCancelled = "reservation_cancelled"
	EventReservationExpired   = "reservation_expired"
	EventStockUpdated         = "stock_updated"
)

// NewReservationEvent builds the envelope for a reservation lifecycle
// transition.
func NewReservationEvent(eventType string, res *Reservation) shared.EventEnvelope {
	return shared.NewEventEnvelope(eventType, map[string]any{
		"reservation_id": res.ID.String(),
		"order_id":       res.OrderID,
		"product_id":     res.ProductID.String(),
		"store_id":       res.StoreID.String(),
		"quantity":       res.Quantity,
		"status":         string(res.Status),
		"expires_at":     res.ExpiresAt.UTC(),
	})
}

// NewStockUpdatedEvent builds the envelope for a direct stock adjustment.
func NewStockUpdatedEvent(rec *InventoryRecord, delta int) shared.EventEnvelope {
	return shared.NewEventEnvelope(EventStockUpdated, map[string]any{
		"product_id":         rec.ProductID.String(),
		"store_id":           rec.StoreID.String(),
		"quantity_delta":     delta,
		"total_quantity":     rec.Total,
		"available_quantity": rec.Available,
		"reserved_quantity":  rec.Reserved,
	})
}
