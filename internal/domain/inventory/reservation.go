package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/inventory/backend/internal/domain/shared"
)

// ReservationStatus is the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationConsumed  ReservationStatus = "CONSUMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationExpired   ReservationStatus = "EXPIRED"
)

// DefaultReservationTTL is the hold duration when the caller does not
// specify one.
const DefaultReservationTTL = 15 * time.Minute

// Reservation is a time-bound hold of stock for an order.
//
// Lifecycle: PENDING -> CONFIRMED -> CONSUMED. A PENDING or CONFIRMED
// reservation can be cancelled; only a PENDING one expires when its TTL
// elapses. Terminal states are CONSUMED, CANCELLED and EXPIRED.
type Reservation struct {
	shared.BaseEntity
	OrderID     string            `gorm:"size:50;not null;index" json:"order_id"`
	ProductID   uuid.UUID         `gorm:"type:uuid;not null;index:idx_reservations_product_store" json:"product_id"`
	StoreID     uuid.UUID         `gorm:"type:uuid;not null;index:idx_reservations_product_store" json:"store_id"`
	Quantity    int               `gorm:"not null" json:"quantity"`
	Status      ReservationStatus `gorm:"size:20;not null;index" json:"status"`
	ExpiresAt   time.Time         `gorm:"not null;index" json:"expires_at"`
	ConfirmedAt *time.Time        `json:"confirmed_at,omitempty"`
	ConsumedAt  *time.Time        `json:"consumed_at,omitempty"`
	CancelledAt *time.Time        `json:"cancelled_at,omitempty"`
}

// TableName returns the table name for GORM
func (Reservation) TableName() string {
	return "reservations"
}

// NewReservation creates a PENDING reservation expiring after ttl.
func NewReservation(orderID string, productID, storeID uuid.UUID, quantity int, ttl time.Duration) *Reservation {
	if ttl <= 0 {
		ttl = DefaultReservationTTL
	}
	return &Reservation{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		ProductID:  productID,
		StoreID:    storeID,
		Quantity:   quantity,
		Status:     ReservationPending,
		ExpiresAt:  time.Now().UTC().Add(ttl),
	}
}

// IsExpired reports whether the reservation's TTL has elapsed. Only
// meaningful for PENDING reservations; confirmed holds do not expire.
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.Status == ReservationPending && now.After(r.ExpiresAt)
}

// Confirm transitions PENDING -> CONFIRMED.
func (r *Reservation) Confirm() error {
	switch r.Status {
	case ReservationPending:
		now := time.Now().UTC()
		r.Status = ReservationConfirmed
		r.ConfirmedAt = &now
		r.UpdatedAt = now
		return nil
	case ReservationConfirmed:
		return shared.NewDomainError(shared.CodeAlreadyConfirmed, "Reservation is already confirmed")
	case ReservationExpired:
		return shared.NewDomainError(shared.CodeReservationExpired, "Reservation has expired")
	default:
		return shared.NewDomainError(shared.CodeInvalidStatus,
			"Cannot confirm reservation in status "+string(r.Status))
	}
}

// Consume transitions CONFIRMED -> CONSUMED.
func (r *Reservation) Consume() error {
	if r.Status != ReservationConfirmed {
		return shared.NewDomainError(shared.CodeInvalidStatus,
			"Only confirmed reservations can be consumed, current status is "+string(r.Status))
	}
	now := time.Now().UTC()
	r.Status = ReservationConsumed
	r.ConsumedAt = &now
	r.UpdatedAt = now
	return nil
}

// Cancel transitions PENDING or CONFIRMED -> CANCELLED.
func (r *Reservation) Cancel() error {
	if r.Status != ReservationPending && r.Status != ReservationConfirmed {
		return shared.NewDomainError(shared.CodeInvalidStatus,
			"Cannot cancel reservation in status "+string(r.Status))
	}
	now := time.Now().UTC()
	r.Status = ReservationCancelled
	r.CancelledAt = &now
	r.UpdatedAt = now
	return nil
}

// Expire transitions PENDING -> EXPIRED.
func (r *Reservation) Expire() error {
	if r.Status != ReservationPending {
		return shared.NewDomainError(shared.CodeInvalidStatus,
			"Only pending reservations can expire, current status is "+string(r.Status))
	}
	r.Status = ReservationExpired
	r.UpdatedAt = time.Now().UTC()
	return nil
}
