package inventory

import (
	"context"
	"time"

	"github.com/inventory/backend/internal/domain/inventory"
	"go.uber.org/zap"
)

// sweepBatchSize bounds how many overdue reservations one sweep handles
const sweepBatchSize = 100

// ExpirationSweeper periodically expires overdue PENDING reservations.
// Expiry is also applied lazily when a stale reservation is confirmed, so
// the sweeper is a cleanup backstop rather than a correctness requirement.
type ExpirationSweeper struct {
	service  *ReservationService
	scope    TransactionScope
	interval time.Duration
	logger   *zap.Logger
}

// SweepStats contains statistics about one sweep run
type SweepStats struct {
	Found       int       `json:"found"`
	Expired     int       `json:"expired"`
	Failed      int       `json:"failed"`
	ProcessedAt time.Time `json:"processed_at"`
}

// NewExpirationSweeper creates a new ExpirationSweeper
func NewExpirationSweeper(service *ReservationService, scope TransactionScope, interval time.Duration, logger *zap.Logger) *ExpirationSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ExpirationSweeper{
		service:  service,
		scope:    scope,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps on the configured interval until ctx is cancelled.
func (s *ExpirationSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("reservation expiration sweeper started",
		zap.Duration("interval", s.interval),
	)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reservation expiration sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.logger.Error("expiration sweep failed", zap.Error(err))
			}
		}
	}
}

// SweepOnce finds overdue PENDING reservations and expires each through the
// engine, so every expiry takes the distributed lock, applies the release
// delta conditionally, and publishes its event.
func (s *ExpirationSweeper) SweepOnce(ctx context.Context) (*SweepStats, error) {
	stats := &SweepStats{ProcessedAt: time.Now().UTC()}

	var overdue []inventory.Reservation
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		overdue, err = repos.ReservationRepo().FindExpiredPending(ctx, time.Now().UTC(), sweepBatchSize)
		return err
	})
	if err != nil {
		s.logger.Error("failed to find expired reservations", zap.Error(err))
		return nil, err
	}

	stats.Found = len(overdue)
	if stats.Found == 0 {
		s.logger.Debug("no expired reservations found")
		return stats, nil
	}

	s.logger.Info("found expired reservations", zap.Int("count", stats.Found))

	for i := range overdue {
		expired, err := s.service.ExpireReservation(ctx, overdue[i].ID)
		if err != nil {
			s.logger.Error("failed to expire reservation",
				zap.String("reservation_id", overdue[i].ID.String()),
				zap.String("order_id", overdue[i].OrderID),
				zap.Error(err),
			)
			stats.Failed++
			continue
		}
		if expired {
			stats.Expired++
		}
	}

	s.logger.Info("completed expiration sweep",
		zap.Int("found", stats.Found),
		zap.Int("expired", stats.Expired),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}
