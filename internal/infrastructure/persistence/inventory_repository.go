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

// GormInventoryRepository implements InventoryRepository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// FindByProductAndStore finds the inventory record for a (product, store) pair
func (r *GormInventoryRepository) FindByProductAndStore(ctx context.Context, productID, storeID uuid.UUID) (*inventory.InventoryRecord, error) {
	var rec inventory.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND store_id = ?", productID, storeID).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrInventoryNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindAll returns every inventory record
func (r *GormInventoryRepository) FindAll(ctx context.Context) ([]inventory.InventoryRecord, error) {
	var records []inventory.InventoryRecord
	if err := r.db.WithContext(ctx).
		Order("product_id, store_id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByStore returns all inventory records held at one store
func (r *GormInventoryRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]inventory.InventoryRecord, error) {
	var records []inventory.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("product_id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Create inserts a new inventory record
func (r *GormInventoryRepository) Create(ctx context.Context, record *inventory.InventoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ApplyDelta mutates the counters of one record in a single conditional
// UPDATE guarded by the version the caller loaded. RowsAffected of zero
// means another transaction won the race; the caller gets
// OPTIMISTIC_LOCK_CONFLICT and decides whether to retry.
func (r *GormInventoryRepository) ApplyDelta(ctx context.Context, productID, storeID uuid.UUID, expectedVersion int, delta inventory.CounterDelta) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.InventoryRecord{}).
		Where("product_id = ? AND store_id = ? AND version = ?", productID, storeID, expectedVersion).
		Updates(map[string]interface{}{
			"available":  gorm.Expr("available + ?", delta.Available),
			"reserved":   gorm.Expr("reserved + ?", delta.Reserved),
			"total":      gorm.Expr("total + ?", delta.Total),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrOptimisticConflict
	}
	return nil
}

var _ inventory.InventoryRepository = (*GormInventoryRepository)(nil)
