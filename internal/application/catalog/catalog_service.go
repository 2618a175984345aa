package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/inventory/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductView is the API read model for a product
type ProductView struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
}

// StoreView is the API read model for a store
type StoreView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Address  string    `json:"address,omitempty"`
	City     string    `json:"city,omitempty"`
	Country  string    `json:"country,omitempty"`
	ZipCode  string    `json:"zip_code,omitempty"`
	Status   string    `json:"status"`
	Timezone string    `json:"timezone"`
}

// Service serves the product and store catalog
type Service struct {
	productRepo catalog.ProductRepository
	storeRepo   catalog.StoreRepository
}

// NewService creates a new catalog Service
func NewService(productRepo catalog.ProductRepository, storeRepo catalog.StoreRepository) *Service {
	return &Service{
		productRepo: productRepo,
		storeRepo:   storeRepo,
	}
}

// ListProducts returns the full product catalog.
func (s *Service) ListProducts(ctx context.Context) ([]ProductView, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, newProductView(&products[i]))
	}
	return views, nil
}

// ListStores returns all stores.
func (s *Service) ListStores(ctx context.Context) ([]StoreView, error) {
	stores, err := s.storeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]StoreView, 0, len(stores))
	for i := range stores {
		views = append(views, newStoreView(&stores[i]))
	}
	return views, nil
}

// GetStore returns one store by ID.
func (s *Service) GetStore(ctx context.Context, id uuid.UUID) (*StoreView, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := newStoreView(store)
	return &view, nil
}

func newProductView(p *catalog.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price(),
	}
}

func newStoreView(s *catalog.Store) StoreView {
	return StoreView{
		ID:       s.ID,
		Name:     s.Name,
		Address:  s.Address,
		City:     s.City,
		Country:  s.Country,
		ZipCode:  s.ZipCode,
		Status:   string(s.Status),
		Timezone: s.Timezone,
	}
}
