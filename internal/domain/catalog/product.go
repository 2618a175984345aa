package catalog

import (
	"github.com/inventory/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a sellable item in the catalog. Prices are stored as integer
// minor units (cents) and only rendered as decimals at the API boundary.
type Product struct {
	shared.BaseEntity
	SKU         string `gorm:"size:64;uniqueIndex" json:"sku"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"size:1024" json:"description"`
	Category    string `gorm:"size:100;not null;index" json:"category"`
	PriceCents  int64  `gorm:"not null;default:0" json:"price_cents"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(sku, name, description, category string, priceCents int64) *Product {
	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		SKU:         sku,
		Name:        name,
		Description: description,
		Category:    category,
		PriceCents:  priceCents,
	}
}

// Price returns the price in major units with two decimal places.
func (p *Product) Price() decimal.Decimal {
	return decimal.New(p.PriceCents, -2)
}
