package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	appinv "github.com/inventory/backend/internal/application/inventory"
	"github.com/inventory/backend/internal/domain/inventory"
	"github.com/inventory/backend/internal/domain/shared"
	"github.com/inventory/backend/internal/infrastructure/event"
	"github.com/inventory/backend/internal/infrastructure/lock"
	"github.com/inventory/backend/internal/infrastructure/persistence"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newStack wires the engine exactly as the server does: postgres in a
// container, the Redis lock manager and publisher against miniredis.
func newStack(t *testing.T) (*TestDB, *appinv.ReservationService) {
	t.Helper()

	tdb := NewTestDB(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zap.NewNop()
	scope := persistence.NewGormTransactionScope(tdb.DB)
	locks := lock.NewRedisLockManager(client, log)
	publisher := event.NewRedisEventPublisher(client, event.DefaultChannel, log)
	publisher.SetAuditRepository(persistence.NewGormEventRecordRepository(tdb.DB))

	engine := appinv.NewReservationService(scope, locks, publisher, log, appinv.Options{})
	return tdb, engine
}

func TestReservationFlowAgainstPostgres(t *testing.T) {
	tdb, engine := newStack(t)
	ctx := context.Background()

	product := tdb.SeedProduct("SKU-1", "Widget", 1999)
	store := tdb.SeedStore("Main", "1 Main St")
	tdb.SeedInventory(product.ID, store.ID, 100)

	res, err := engine.Reserve(ctx, appinv.ReserveCommand{
		OrderID:   "ORDER-1",
		ProductID: product.ID,
		StoreID:   store.ID,
		Quantity:  10,
	})
	require.NoError(t, err)

	_, err = engine.Confirm(ctx, res.ReservationID)
	require.NoError(t, err)

	_, err = engine.Consume(ctx, res.ReservationID)
	require.NoError(t, err)

	var rec inventory.InventoryRecord
	require.NoError(t, tdb.DB.
		Where("product_id = ? AND store_id = ?", product.ID, store.ID).
		First(&rec).Error)
	assert.Equal(t, 90, rec.Total)
	assert.Equal(t, 90, rec.Available)
	assert.Equal(t, 0, rec.Reserved)
	assert.Equal(t, 3, rec.Version)

	// audit rows landed for each published event
	var auditCount int64
	require.NoError(t, tdb.DB.Model(&inventory.EventRecord{}).Count(&auditCount).Error)
	assert.Equal(t, int64(3), auditCount)
}

func TestDatabaseEnforcesCounterInvariants(t *testing.T) {
	tdb := NewTestDB(t)

	product := tdb.SeedProduct("SKU-1", "Widget", 1999)
	store := tdb.SeedStore("Main", "1 Main St")
	tdb.SeedInventory(product.ID, store.ID, 10)

	// total must always equal available + reserved
	err := tdb.DB.Exec(
		"UPDATE inventory SET available = 5 WHERE product_id = ? AND store_id = ?",
		product.ID, store.ID,
	).Error
	require.Error(t, err, "check constraint should reject an unbalanced update")

	// nothing goes negative
	err = tdb.DB.Exec(
		"UPDATE inventory SET available = -1, total = -1 WHERE product_id = ? AND store_id = ?",
		product.ID, store.ID,
	).Error
	require.Error(t, err)
}

func TestConcurrentReservationsAgainstPostgres(t *testing.T) {
	tdb, engine := newStack(t)
	ctx := context.Background()

	product := tdb.SeedProduct("SKU-1", "Widget", 1999)
	store := tdb.SeedStore("Main", "1 Main St")

	// available = k*q: exactly k of the workers can succeed, the rest must
	// see INSUFFICIENT_STOCK once the lock refusals are retried through
	const quantity = 3
	const winners = 3
	tdb.SeedInventory(product.ID, store.ID, winners*quantity)

	const workers = 8
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			results <- reserveRetryingLock(ctx, engine, appinv.ReserveCommand{
				OrderID:   "ORDER-CONC",
				ProductID: product.ID,
				StoreID:   store.ID,
				Quantity:  quantity,
			})
		}()
	}

	succeeded := 0
	for i := 0; i < workers; i++ {
		err := <-results
		if err == nil {
			succeeded++
			continue
		}
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInsufficientStock, domainErr.Code)
	}
	assert.Equal(t, winners, succeeded)

	var rec inventory.InventoryRecord
	require.NoError(t, tdb.DB.
		Where("product_id = ? AND store_id = ?", product.ID, store.ID).
		First(&rec).Error)
	assert.Equal(t, 0, rec.Available)
	assert.Equal(t, winners*quantity, rec.Reserved)
	assert.Equal(t, rec.Total, rec.Available+rec.Reserved)
}

// reserveRetryingLock retries a reserve that lost the race for the
// per-pair lock, so every worker reaches a real stock decision.
func reserveRetryingLock(ctx context.Context, engine *appinv.ReservationService, cmd appinv.ReserveCommand) error {
	for {
		_, err := engine.Reserve(ctx, cmd)
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == shared.CodeDistributedLockFailed {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		return err
	}
}

func TestLockFailureWhenRedisDown(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()

	product := tdb.SeedProduct("SKU-1", "Widget", 1999)
	store := tdb.SeedStore("Main", "1 Main St")
	tdb.SeedInventory(product.ID, store.ID, 10)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	log := zap.NewNop()
	engine := appinv.NewReservationService(
		persistence.NewGormTransactionScope(tdb.DB),
		lock.NewRedisLockManager(client, log),
		nil, log, appinv.Options{},
	)

	_, err := engine.Reserve(ctx, appinv.ReserveCommand{
		OrderID:   "ORDER-1",
		ProductID: product.ID,
		StoreID:   store.ID,
		Quantity:  1,
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeDistributedLockFailed, domainErr.Code)

	// stock untouched
	var rec inventory.InventoryRecord
	require.NoError(t, tdb.DB.
		Where("product_id = ? AND store_id = ?", product.ID, store.ID).
		First(&rec).Error)
	assert.Equal(t, 10, rec.Available)
	assert.Equal(t, 1, rec.Version)
}

func TestExpirySweepAgainstPostgres(t *testing.T) {
	tdb, engine := newStack(t)
	ctx := context.Background()

	product := tdb.SeedProduct("SKU-1", "Widget", 1999)
	store := tdb.SeedStore("Main", "1 Main St")
	tdb.SeedInventory(product.ID, store.ID, 20)

	res, err := engine.Reserve(ctx, appinv.ReserveCommand{
		OrderID:   "ORDER-1",
		ProductID: product.ID,
		StoreID:   store.ID,
		Quantity:  5,
	})
	require.NoError(t, err)

	require.NoError(t, tdb.DB.Model(&inventory.Reservation{}).
		Where("id = ?", res.ReservationID).
		Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error)

	sweeper := appinv.NewExpirationSweeper(engine,
		persistence.NewGormTransactionScope(tdb.DB), time.Minute, zap.NewNop())
	stats, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Expired)

	var rec inventory.InventoryRecord
	require.NoError(t, tdb.DB.
		Where("product_id = ? AND store_id = ?", product.ID, store.ID).
		First(&rec).Error)
	assert.Equal(t, 20, rec.Available)
	assert.Equal(t, 0, rec.Reserved)
}
