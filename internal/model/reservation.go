package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reservation statuses. Reservations are never hard-deleted.
const (
	ReservationActive    = "active"
	ReservationReleased  = "released"
	ReservationFulfilled = "fulfilled"
)

// Reservation is a soft hold against a batch's on-hand quantity.
// Invariant: the sum of active reservation quantities for a batch never
// exceeds the batch's on-hand quantity at the moment a reservation is
// created or increased.
type Reservation struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_reservations_batch"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LocationID  uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	UnitID      uuid.UUID       `gorm:"type:uuid;not null"`
	Status      string          `gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Batch *Batch `gorm:"foreignKey:BatchID"`
}
