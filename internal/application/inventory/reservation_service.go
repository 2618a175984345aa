package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inventory/backend/internal/domain/inventory"
	"github.com/inventory/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// lockKeyPrefix scopes distributed lock keys to inventory mutations
const lockKeyPrefix = "inventory_lock"

// cancelRetryAttempts bounds the conditional-update retry on the cancel path
const cancelRetryAttempts = 3

// MetricsRecorder receives reservation outcome counts. Implementations must
// be safe for concurrent use; a nil recorder disables recording.
type MetricsRecorder interface {
	ReservationOutcome(operation, outcome string)
}

// Options configures the reservation engine
type Options struct {
	ReservationTTL time.Duration // default hold duration for new reservations
	LockTTL        time.Duration // distributed lock TTL
}

func (o *Options) applyDefaults() {
	if o.ReservationTTL <= 0 {
		o.ReservationTTL = inventory.DefaultReservationTTL
	}
	if o.LockTTL <= 0 {
		o.LockTTL = 30 * time.Second
	}
}

// ReservationService coordinates the reservation lifecycle. Every mutation
// runs under the per-(product, store) distributed lock and applies counter
// changes through a single version-guarded UPDATE inside a transaction.
// Events are published after commit, fire-and-forget.
type ReservationService struct {
	scope     TransactionScope
	locks     shared.LockManager
	publisher shared.EventPublisher
	metrics   MetricsRecorder
	logger    *zap.Logger
	opts      Options
}

// NewReservationService creates a new ReservationService
func NewReservationService(
	scope TransactionScope,
	locks shared.LockManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
	opts Options,
) *ReservationService {
	opts.applyDefaults()
	if publisher == nil {
		publisher = shared.NoOpEventPublisher{}
	}
	return &ReservationService{
		scope:     scope,
		locks:     locks,
		publisher: publisher,
		logger:    logger,
		opts:      opts,
	}
}

// SetMetricsRecorder attaches an outcome recorder. Optional.
func (s *ReservationService) SetMetricsRecorder(m MetricsRecorder) {
	s.metrics = m
}

// LockKey returns the distributed lock key for a (product, store) pair.
func LockKey(productID, storeID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", lockKeyPrefix, productID, storeID)
}

// Reserve places a PENDING hold on stock for an order.
func (s *ReservationService) Reserve(ctx context.Context, cmd ReserveCommand) (*ReservationResult, error) {
	release, err := s.acquireLock(ctx, cmd.ProductID, cmd.StoreID)
	if err != nil {
		s.record("reserve", "lock_failed")
		return nil, err
	}
	defer release()

	ttl := cmd.TTL
	if ttl <= 0 {
		ttl = s.opts.ReservationTTL
	}
	res := inventory.NewReservation(cmd.OrderID, cmd.ProductID, cmd.StoreID, cmd.Quantity, ttl)

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		rec, err := repos.InventoryRepo().FindByProductAndStore(ctx, cmd.ProductID, cmd.StoreID)
		if err != nil {
			return err
		}
		if err := rec.CanReserve(cmd.Quantity); err != nil {
			return err
		}
		if err := repos.ReservationRepo().Create(ctx, res); err != nil {
			return err
		}
		return repos.InventoryRepo().ApplyDelta(ctx,
			cmd.ProductID, cmd.StoreID, rec.Version, inventory.ReserveDelta(cmd.Quantity))
	})
	if err != nil {
		s.record("reserve", outcomeFor(err))
		return nil, err
	}

	s.publish(ctx, inventory.NewReservationEvent(inventory.EventReservationCreated, res))
	s.record("reserve", "success")
	s.logger.Info("stock reserved",
		zap.String("reservation_id", res.ID.String()),
		zap.String("order_id", res.OrderID),
		zap.String("product_id", cmd.ProductID.String()),
		zap.String("store_id", cmd.StoreID.String()),
		zap.Int("quantity", cmd.Quantity),
	)
	return NewReservationResult(res), nil
}

// Confirm moves a PENDING reservation to CONFIRMED. A reservation whose TTL
// elapsed is expired instead and the caller gets RESERVATION_EXPIRED; the
// expiry itself is committed.
func (s *ReservationService) Confirm(ctx context.Context, reservationID uuid.UUID) (*ReservationResult, error) {
	res, err := s.loadReservation(ctx, reservationID)
	if err != nil {
		s.record("confirm", outcomeFor(err))
		return nil, err
	}

	release, err := s.acquireLock(ctx, res.ProductID, res.StoreID)
	if err != nil {
		s.record("confirm", "lock_failed")
		return nil, err
	}
	defer release()

	var expired bool
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		res, err = repos.ReservationRepo().FindByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if res.IsExpired(time.Now().UTC()) {
			expired = true
			return s.expireInTx(ctx, repos, res)
		}
		if err := res.Confirm(); err != nil {
			return err
		}
		return repos.ReservationRepo().Save(ctx, res)
	})
	if err != nil {
		s.record("confirm", outcomeFor(err))
		return nil, err
	}

	if expired {
		s.publish(ctx, inventory.NewReservationEvent(inventory.EventReservationExpired, res))
		s.record("confirm", "expired")
		return nil, shared.NewDomainError(shared.CodeReservationExpired, "Reservation has expired")
	}

	s.publish(ctx, inventory.NewReservationEvent(inventory.EventReservationConfirmed, res))
	s.record("confirm", "success")
	return NewReservationResult(res), nil
}

// Consume finalizes a CONFIRMED reservation: the held stock leaves the
// system (reserved and total both drop).
func (s *ReservationService) Consume(ctx context.Context, reservationID uuid.UUID) (*ReservationResult, error) {
	res, err := s.loadReservation(ctx, reservationID)
	if err != nil {
		s.record("consume", outcomeFor(err))
		return nil, err
	}

	release, err := s.acquireLock(ctx, res.ProductID, res.StoreID)
	if err != nil {
		s.record("consume", "lock_failed")
		return nil, err
	}
	defer release()

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		res, err = repos.ReservationRepo().FindByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := res.Consume(); err != nil {
			return err
		}
		rec, err := repos.InventoryRepo().FindByProductAndStore(ctx, res.ProductID, res.StoreID)
		if err != nil {
			return err
		}
		if err := repos.InventoryRepo().ApplyDelta(ctx,
			res.ProductID, res.StoreID, rec.Version, inventory.ConsumeDelta(res.Quantity)); err != nil {
			return err
		}
		return repos.ReservationRepo().Save(ctx, res)
	})
	if err != nil {
		s.record("consume", outcomeFor(err))
		return nil, err
	}

	s.publish(ctx, inventory.NewReservationEvent(inventory.EventReservationConsumed, res))
	s.record("consume", "success")
	return NewReservationResult(res), nil
}

// Cancel releases a PENDING or CONFIRMED hold back to available stock.
// This is the one path that retries on a version conflict: cancellation
// must not be lost to a concurrent stock adjustment, so the conditional
// update is re-attempted with a fresh version, still under the lock.
func (s *ReservationService) Cancel(ctx context.Context, reservationID uuid.UUID) (*ReservationResult, error) {
	res, err := s.loadReservation(ctx, reservationID)
	if err != nil {
		s.record("cancel", outcomeFor(err))
		return nil, err
	}

	release, err := s.acquireLock(ctx, res.ProductID, res.StoreID)
	if err != nil {
		s.record("cancel", "lock_failed")
		return nil, err
	}
	defer release()

	for attempt := 1; ; attempt++ {
		err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			res, err = repos.ReservationRepo().FindByID(ctx, reservationID)
			if err != nil {
				return err
			}
			if err := res.Cancel(); err != nil {
				return err
			}
			rec, err := repos.InventoryRepo().FindByProductAndStore(ctx, res.ProductID, res.StoreID)
			if err != nil {
				return err
			}
			if err := repos.InventoryRepo().ApplyDelta(ctx,
				res.ProductID, res.StoreID, rec.Version, inventory.ReleaseDelta(res.Quantity)); err != nil {
				return err
			}
			return repos.ReservationRepo().Save(ctx, res)
		})
		if err == nil || !isOptimisticConflict(err) || attempt >= cancelRetryAttempts {
			break
		}
		s.logger.Warn("cancel hit version conflict, retrying",
			zap.String("reservation_id", reservationID.String()),
			zap.Int("attempt", attempt),
		)
	}
	if err != nil {
		s.record("cancel", outcomeFor(err))
		return nil, err
	}

	s.publish(ctx, inventory.NewReservationEvent(inventory.EventReservationCancelled, res))
	s.record("cancel", "success")
	return NewReservationResult(res), nil
}

// ExpireReservation expires a single overdue PENDING reservation. Used by
// the sweeper; the lazy path on Confirm shares expireInTx. Returns false
// when the reservation was no longer pending or no longer overdue.
func (s *ReservationService) ExpireReservation(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	res, err := s.loadReservation(ctx, reservationID)
	if err != nil {
		return false, err
	}

	release, err := s.acquireLock(ctx, res.ProductID, res.StoreID)
	if err != nil {
		return false, err
	}
	defer release()

	expired := false
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		res, err = repos.ReservationRepo().FindByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if !res.IsExpired(time.Now().UTC()) {
			return nil
		}
		expired = true
		return s.expireInTx(ctx, repos, res)
	})
	if err != nil {
		return false, err
	}
	if expired {
		s.publish(ctx, inventory.NewReservationEvent(inventory.EventReservationExpired, res))
		s.record("expire", "success")
	}
	return expired, nil
}

// UpdateStock applies a direct adjustment to available (and total) stock.
func (s *ReservationService) UpdateStock(ctx context.Context, cmd UpdateStockCommand) (*StockView, error) {
	release, err := s.acquireLock(ctx, cmd.ProductID, cmd.StoreID)
	if err != nil {
		s.record("update_stock", "lock_failed")
		return nil, err
	}
	defer release()

	var rec *inventory.InventoryRecord
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		rec, err = repos.InventoryRepo().FindByProductAndStore(ctx, cmd.ProductID, cmd.StoreID)
		if err != nil {
			return err
		}
		if err := rec.CanAdjust(cmd.Delta); err != nil {
			return err
		}
		return repos.InventoryRepo().ApplyDelta(ctx,
			cmd.ProductID, cmd.StoreID, rec.Version, inventory.AdjustDelta(cmd.Delta))
	})
	if err != nil {
		s.record("update_stock", outcomeFor(err))
		return nil, err
	}

	rec.Available += cmd.Delta
	rec.Total += cmd.Delta
	rec.Version++

	s.publish(ctx, inventory.NewStockUpdatedEvent(rec, cmd.Delta))
	s.record("update_stock", "success")
	s.logger.Info("stock updated",
		zap.String("product_id", cmd.ProductID.String()),
		zap.String("store_id", cmd.StoreID.String()),
		zap.Int("delta", cmd.Delta),
		zap.Int("available", rec.Available),
	)
	view := NewStockView(rec)
	return &view, nil
}

// expireInTx releases the held quantity and marks the reservation EXPIRED
// within the caller's transaction.
func (s *ReservationService) expireInTx(ctx context.Context, repos TransactionalRepositories, res *inventory.Reservation) error {
	rec, err := repos.InventoryRepo().FindByProductAndStore(ctx, res.ProductID, res.StoreID)
	if err != nil {
		return err
	}
	if err := repos.InventoryRepo().ApplyDelta(ctx,
		res.ProductID, res.StoreID, rec.Version, inventory.ReleaseDelta(res.Quantity)); err != nil {
		return err
	}
	if err := res.Expire(); err != nil {
		return err
	}
	return repos.ReservationRepo().Save(ctx, res)
}

// loadReservation fetches a reservation outside any transaction, mapping
// absence to RESERVATION_NOT_FOUND.
func (s *ReservationService) loadReservation(ctx context.Context, id uuid.UUID) (*inventory.Reservation, error) {
	var res *inventory.Reservation
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		res, err = repos.ReservationRepo().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// acquireLock takes the distributed lock for a (product, store) pair and
// returns the release func. Both acquisition refusal and backend failure
// surface as DISTRIBUTED_LOCK_FAILED.
func (s *ReservationService) acquireLock(ctx context.Context, productID, storeID uuid.UUID) (func(), error) {
	key := LockKey(productID, storeID)
	_, acquired, err := s.locks.Acquire(ctx, key, s.opts.LockTTL)
	if err != nil {
		s.logger.Error("lock backend failure", zap.String("key", key), zap.Error(err))
		return nil, shared.NewDomainError(shared.CodeDistributedLockFailed, "Could not acquire inventory lock")
	}
	if !acquired {
		return nil, shared.NewDomainError(shared.CodeDistributedLockFailed, "Inventory is locked by another operation")
	}
	return func() {
		if err := s.locks.Release(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("failed to release inventory lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// publish hands an envelope to the broker. Failures are logged and
// swallowed: event delivery never fails a business operation.
func (s *ReservationService) publish(ctx context.Context, envelope shared.EventEnvelope) {
	if err := s.publisher.Publish(ctx, envelope); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("event_type", envelope.EventType),
			zap.Error(err),
		)
	}
}

func (s *ReservationService) record(operation, outcome string) {
	if s.metrics != nil {
		s.metrics.ReservationOutcome(operation, outcome)
	}
}

func isOptimisticConflict(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.CodeOptimisticLockConflict
}

// outcomeFor maps an error to a metric outcome label
func outcomeFor(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case shared.CodeInsufficientStock:
			return "insufficient_stock"
		case shared.CodeOptimisticLockConflict:
			return "version_conflict"
		case shared.CodeNotFound, shared.CodeInventoryNotFound, shared.CodeReservationNotFound:
			return "not_found"
		case shared.CodeReservationExpired:
			return "expired"
		case shared.CodeInvalidStatus, shared.CodeAlreadyConfirmed:
			return "invalid_status"
		default:
			return "error"
		}
	}
	return "error"
}
