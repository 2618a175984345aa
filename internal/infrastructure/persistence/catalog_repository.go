package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/inventory/backend/internal/domain/catalog"
	"github.com/inventory/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll returns the full product catalog
func (r *GormProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).Order("name").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save persists a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by its ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Store, error) {
	var store catalog.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

// FindAll returns all stores
func (r *GormStoreRepository) FindAll(ctx context.Context) ([]catalog.Store, error) {
	var stores []catalog.Store
	if err := r.db.WithContext(ctx).Order("name").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Save persists a store
func (r *GormStoreRepository) Save(ctx context.Context, store *catalog.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
var _ catalog.StoreRepository = (*GormStoreRepository)(nil)
