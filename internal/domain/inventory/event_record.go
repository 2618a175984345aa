package inventory

import (
	"time"

	"github.com/inventory/backend/internal/domain/shared"
)

// EventRecord is a best-effort audit row for every envelope handed to the
// broker. Inserted outside the business transaction; failures are logged
// and swallowed.
type EventRecord struct {
	shared.BaseEntity
	EventType   string    `gorm:"size:64;not null;index" json:"event_type"`
	Payload     []byte    `gorm:"type:jsonb" json:"payload"`
	Source      string    `gorm:"size:64;not null" json:"source"`
	Version     string    `gorm:"size:16;not null" json:"version"`
	PublishedAt time.Time `gorm:"not null" json:"published_at"`
}

// TableName returns the table name for GORM
func (EventRecord) TableName() string {
	return "inventory_events"
}
