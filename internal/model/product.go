package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is read-mostly master data. Code feeds into batch numbering
// (YYYYMMDD-<Code>-NNNN).
type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code          string    `gorm:"uniqueIndex;not null"`
	Name          string    `gorm:"index;not null"`
	DefaultUnitID *uuid.UUID `gorm:"type:uuid"`
	Active        bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
