package dto

// ReserveRequest is the body for POST /inventory/reserve.
// order_id is uppercase alphanumeric with dash/underscore, max 50 chars;
// IDs are lowercase canonical UUIDs.
type ReserveRequest struct {
	OrderID    string `json:"order_id" binding:"required,order_id"`
	ProductID  string `json:"product_id" binding:"required,lowercase_uuid"`
	StoreID    string `json:"store_id" binding:"required,lowercase_uuid"`
	Quantity   int    `json:"quantity" binding:"required,min=1,max=100"`
	TTLMinutes *int   `json:"ttl_minutes" binding:"omitempty,min=1,max=60"`
}

// ConfirmRequest is the body for POST /inventory/confirm. The order ID is
// part of the wire contract and is validated even though the reservation ID
// alone identifies the hold.
type ConfirmRequest struct {
	ReservationID string `json:"reservation_id" binding:"required,lowercase_uuid"`
	OrderID       string `json:"order_id" binding:"required,order_id"`
}

// ReservationIDRequest is the body for POST /inventory/consume
type ReservationIDRequest struct {
	ReservationID string `json:"reservation_id" binding:"required,lowercase_uuid"`
}

// ReservationIDURI binds the reservation ID path parameter
type ReservationIDURI struct {
	ReservationID string `uri:"reservation_id" binding:"required,lowercase_uuid"`
}

// UpdateStockRequest is the body for POST /inventory/update-stock.
// quantity is always positive; operation picks the sign.
type UpdateStockRequest struct {
	ProductID string `json:"product_id" binding:"required,lowercase_uuid"`
	StoreID   string `json:"store_id" binding:"required,lowercase_uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=1000"`
	Operation string `json:"operation" binding:"required,oneof=add subtract"`
}

// QuantityDelta returns the signed stock change the operation encodes.
func (r *UpdateStockRequest) QuantityDelta() int {
	if r.Operation == "subtract" {
		return -r.Quantity
	}
	return r.Quantity
}

// StockURI binds the stock lookup path parameters
type StockURI struct {
	ProductID string `uri:"product_id" binding:"required,lowercase_uuid"`
	StoreID   string `uri:"store_id" binding:"required,lowercase_uuid"`
}

// StoreIDURI binds the store ID path parameter
type StoreIDURI struct {
	StoreID string `uri:"store_id" binding:"required,lowercase_uuid"`
}
