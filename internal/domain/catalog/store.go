package catalog

import (
	"github.com/inventory/backend/internal/domain/shared"
)

// StoreStatus is the operational state of a store
type StoreStatus string

const (
	StoreActive      StoreStatus = "active"
	StoreInactive    StoreStatus = "inactive"
	StoreMaintenance StoreStatus = "maintenance"
)

// Store is a physical or virtual location that holds stock.
type Store struct {
	shared.BaseEntity
	Name     string      `gorm:"size:255;not null" json:"name"`
	Address  string      `gorm:"size:512" json:"address"`
	City     string      `gorm:"size:100" json:"city"`
	Country  string      `gorm:"size:100" json:"country"`
	ZipCode  string      `gorm:"size:20" json:"zip_code"`
	Status   StoreStatus `gorm:"size:20;not null;default:active" json:"status"`
	Timezone string      `gorm:"size:50;not null;default:UTC" json:"timezone"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a new active store in the UTC timezone.
func NewStore(name, address, city, country, zipCode string) *Store {
	return &Store{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Address:    address,
		City:       city,
		Country:    country,
		ZipCode:    zipCode,
		Status:     StoreActive,
		Timezone:   "UTC",
	}
}
