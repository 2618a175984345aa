package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/inventory/backend/internal/domain/inventory"
	"github.com/inventory/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReservationRepository implements ReservationRepository using GORM
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// FindByID finds a reservation by its ID
func (r *GormReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Reservation, error) {
	var res inventory.Reservation
	if err := r.db.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// FindExpiredPending returns PENDING reservations whose TTL elapsed,
// oldest first, capped at limit.
func (r *GormReservationRepository) FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]inventory.Reservation, error) {
	var reservations []inventory.Reservation
	query := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", inventory.ReservationPending, now).
		Order("expires_at")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// Create inserts a new reservation
func (r *GormReservationRepository) Create(ctx context.Context, reservation *inventory.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// Save persists the current state of a reservation
func (r *GormReservationRepository) Save(ctx context.Context, reservation *inventory.Reservation) error {
	reservation.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(reservation).Error
}

var _ inventory.ReservationRepository = (*GormReservationRepository)(nil)
