package main

import (
	"flag"
	"fmt"

	"github.com/google/uuid"
	"github.com/inventory/backend/internal/domain/catalog"
	"github.com/inventory/backend/internal/domain/inventory"
	"github.com/inventory/backend/internal/infrastructure/config"
	"github.com/inventory/backend/internal/infrastructure/logger"
	"github.com/inventory/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedProduct struct {
	sku         string
	name        string
	description string
	category    string
	priceCents  int64
	stock       int
}

var seedProducts = []seedProduct{
	{"SKU-TSHIRT-BLK-M", "Black T-Shirt (M)", "Cotton crew neck, medium", "apparel", 1999, 120},
	{"SKU-TSHIRT-BLK-L", "Black T-Shirt (L)", "Cotton crew neck, large", "apparel", 1999, 80},
	{"SKU-HOODIE-GRY-M", "Grey Hoodie (M)", "Fleece pullover, medium", "apparel", 4999, 45},
	{"SKU-MUG-WHT", "White Mug", "330ml ceramic mug", "drinkware", 899, 300},
	{"SKU-STICKER-PACK", "Sticker Pack", "Set of 12 vinyl stickers", "accessories", 499, 1000},
}

var seedStores = []struct {
	name    string
	address string
	city    string
	country string
	zipCode string
}{
	{"Downtown Flagship", "100 Market St", "San Francisco", "US", "94105"},
	{"Airport Kiosk", "Terminal 2, Gate B14", "San Francisco", "US", "94128"},
	{"Warehouse Outlet", "55 Industrial Way", "Oakland", "US", "94607"},
}

func main() {
	var stockPerStore bool
	flag.BoolVar(&stockPerStore, "all-stores", true, "Seed stock for every (product, store) pair")
	flag.Parse()

	log, err := logger.New(logger.DefaultConfig())
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := seed(db.DB, stockPerStore); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding complete",
		zap.Int("products", len(seedProducts)),
		zap.Int("stores", len(seedStores)),
	)
}

// seed inserts demo catalog and stock data. Existing rows (matched by SKU
// or store name) are left alone so the command is safe to re-run.
func seed(db *gorm.DB, stockPerStore bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		stores := make([]*catalog.Store, 0, len(seedStores))
		for _, s := range seedStores {
			store, err := findOrCreateStore(tx, catalog.NewStore(s.name, s.address, s.city, s.country, s.zipCode))
			if err != nil {
				return err
			}
			stores = append(stores, store)
		}

		for _, p := range seedProducts {
			product, err := findOrCreateProduct(tx, p)
			if err != nil {
				return err
			}
			if !stockPerStore {
				continue
			}
			for _, store := range stores {
				if err := ensureInventory(tx, product.ID, store.ID, p.stock); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func findOrCreateProduct(tx *gorm.DB, p seedProduct) (*catalog.Product, error) {
	var existing catalog.Product
	err := tx.Where("sku = ?", p.sku).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("lookup product %s: %w", p.sku, err)
	}

	product := catalog.NewProduct(p.sku, p.name, p.description, p.category, p.priceCents)
	if err := tx.Create(product).Error; err != nil {
		return nil, fmt.Errorf("create product %s: %w", p.sku, err)
	}
	return product, nil
}

func findOrCreateStore(tx *gorm.DB, store *catalog.Store) (*catalog.Store, error) {
	var existing catalog.Store
	err := tx.Where("name = ?", store.Name).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("lookup store %s: %w", store.Name, err)
	}

	if err := tx.Create(store).Error; err != nil {
		return nil, fmt.Errorf("create store %s: %w", store.Name, err)
	}
	return store, nil
}

func ensureInventory(tx *gorm.DB, productID, storeID uuid.UUID, quantity int) error {
	var existing inventory.InventoryRecord
	err := tx.Where("product_id = ? AND store_id = ?", productID, storeID).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("lookup inventory %s/%s: %w", productID, storeID, err)
	}

	rec, err := inventory.NewInventoryRecord(productID, storeID, quantity)
	if err != nil {
		return err
	}
	if err := tx.Create(rec).Error; err != nil {
		return fmt.Errorf("create inventory %s/%s: %w", productID, storeID, err)
	}
	return nil
}
