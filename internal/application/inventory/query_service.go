package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/inventory/backend/internal/domain/catalog"
	"github.com/inventory/backend/internal/domain/inventory"
)

// QueryService serves read-only inventory views. Reads go straight to the
// repositories; no lock or transaction is taken.
type QueryService struct {
	inventoryRepo inventory.InventoryRepository
	productRepo   catalog.ProductRepository
	storeRepo     catalog.StoreRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(
	inventoryRepo inventory.InventoryRepository,
	productRepo catalog.ProductRepository,
	storeRepo catalog.StoreRepository,
) *QueryService {
	return &QueryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		storeRepo:     storeRepo,
	}
}

// GetStock returns the counters for one (product, store) pair.
func (s *QueryService) GetStock(ctx context.Context, productID, storeID uuid.UUID) (*StockView, error) {
	rec, err := s.inventoryRepo.FindByProductAndStore(ctx, productID, storeID)
	if err != nil {
		return nil, err
	}
	view := NewStockView(rec)
	return &view, nil
}

// ListAll returns every inventory record with product and store names
// attached.
func (s *QueryService) ListAll(ctx context.Context) ([]StockView, error) {
	records, err := s.inventoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, records)
}

// ListByStore returns the inventory held at one store.
func (s *QueryService) ListByStore(ctx context.Context, storeID uuid.UUID) ([]StockView, error) {
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		return nil, err
	}
	records, err := s.inventoryRepo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, records)
}

// decorate attaches product and store names to views, resolving each name
// once per listing.
func (s *QueryService) decorate(ctx context.Context, records []inventory.InventoryRecord) ([]StockView, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	stores, err := s.storeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	productNames := make(map[uuid.UUID]string, len(products))
	for i := range products {
		productNames[products[i].ID] = products[i].Name
	}
	storeNames := make(map[uuid.UUID]string, len(stores))
	for i := range stores {
		storeNames[stores[i].ID] = stores[i].Name
	}

	views := make([]StockView, 0, len(records))
	for i := range records {
		view := NewStockView(&records[i])
		view.ProductName = productNames[records[i].ProductID]
		view.StoreName = storeNames[records[i].StoreID]
		views = append(views, view)
	}
	return views, nil
}
