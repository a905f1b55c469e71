package model

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is read-mostly master data.
type Warehouse struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Locations []StorageLocation `gorm:"foreignKey:WarehouseID"`
}

// StorageLocation is a bin/place inside a warehouse. Movement and reservation
// keys are always (warehouse, location) pairs.
type StorageLocation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_location_code"`
	Code        string    `gorm:"not null;uniqueIndex:idx_location_code"`
	Name        string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID"`
}
