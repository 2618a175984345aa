package persistence

import (
	"context"

	"github.com/inventory/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormEventRecordRepository implements EventRecordRepository using GORM
type GormEventRecordRepository struct {
	db *gorm.DB
}

// NewGormEventRecordRepository creates a new GormEventRecordRepository
func NewGormEventRecordRepository(db *gorm.DB) *GormEventRecordRepository {
	return &GormEventRecordRepository{db: db}
}

// Append inserts an audit row. Append-only; records are never updated.
func (r *GormEventRecordRepository) Append(ctx context.Context, record *inventory.EventRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

var _ inventory.EventRecordRepository = (*GormEventRecordRepository)(nil)
