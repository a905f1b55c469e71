package model

import (
	"time"

	"github.com/google/uuid"
)

// Unit of measure (kg, l, pcs). Quantities are meaningless without one.
type Unit struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"uniqueIndex;not null"`
	Name      string
	CreatedAt time.Time
}
