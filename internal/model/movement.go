package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement types. Quantity is always positive; direction is encoded by the
// type, never by sign.
const (
	MovementReceipt  = "receipt"
	MovementIssue    = "issue"
	MovementTransfer = "transfer"
)

// MovementEntry is one quantity change for a batch at a (warehouse, location)
// key. Entries are append-only: immutable once written, never reordered, so
// insertion order is chronological order. Stock levels are always derived by
// replaying entries; nothing here caches a running total.
type MovementEntry struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Seq is a database-assigned monotonic sequence. Replay and listings
	// order by it; created_at can tie under concurrent posts and the random
	// uuid would break such ties arbitrarily.
	Seq         int64           `gorm:"autoIncrement;not null;uniqueIndex"`
	BatchID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_movements_batch"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LocationID  uuid.UUID       `gorm:"type:uuid;not null"`
	Type        string          `gorm:"type:varchar(20);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	UnitID      uuid.UUID       `gorm:"type:uuid;not null"`
	// Target pair is set iff Type == MovementTransfer.
	TargetWarehouseID *uuid.UUID `gorm:"type:uuid"`
	TargetLocationID  *uuid.UUID `gorm:"type:uuid"`
	// Link back to the originating document (goods receipt, production order).
	ReferenceType *string
	ReferenceID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
	CreatedBy     *uuid.UUID `gorm:"type:uuid"`

	Batch *Batch `gorm:"foreignKey:BatchID"`
}

// TableName overrides GORM's default pluralization.
func (MovementEntry) TableName() string { return "movement_entries" }
