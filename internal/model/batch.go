package model

import (
	"time"

	"github.com/google/uuid"
)

// Batch statuses. Batches are never deleted, only status-transitioned.
const (
	BatchStatusNew      = "new"
	BatchStatusReleased = "released"
	BatchStatusBlocked  = "blocked"
	BatchStatusConsumed = "consumed"
)

// Batch kinds describe how the batch came into existence.
const (
	BatchKindIncoming   = "incoming"
	BatchKindProduction = "production"
	BatchKindBlend      = "blend"
)

// Batch is a traceable lot of a product. BatchNumber is globally unique and
// immutable once assigned (format: YYYYMMDD-<productCode>-NNNN).
type Batch struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchNumber         string    `gorm:"uniqueIndex;not null"`
	ProductID           uuid.UUID `gorm:"type:uuid;not null;index"`
	SupplierID          *uuid.UUID `gorm:"type:uuid;index"`
	SupplierBatchNumber *string
	Status              string `gorm:"type:varchar(20);not null;default:'new';index"`
	Kind                string `gorm:"type:varchar(20);not null;default:'incoming'"`
	ProductionDate      *time.Time
	BestBeforeDate      *time.Time `gorm:"index"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Product  *Product  `gorm:"foreignKey:ProductID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

// TableName overrides GORM's default pluralization.
func (Batch) TableName() string { return "batches" }
