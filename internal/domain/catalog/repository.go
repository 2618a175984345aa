package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository provides access to the product catalog
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, product *Product) error
}

// StoreRepository provides access to stores
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	FindAll(ctx context.Context) ([]Store, error)
	Save(ctx context.Context, store *Store) error
}
