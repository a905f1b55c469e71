package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Process types recorded on lineage links.
const (
	ProcessProduction = "production"
	ProcessBlend      = "blend"
	ProcessRepack     = "repack"
	ProcessSplit      = "split"
)

// LineageLink is a directed edge recording that quantity from a source batch
// was consumed to produce or augment a destination batch. The relation forms
// a directed graph that is acyclic in practice; traversal queries are
// single-hop with a continuation flag, so a cycle cannot cause a runaway
// query.
type LineageLink struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SourceBatchID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_lineage_source"`
	DestinationBatchID uuid.UUID       `gorm:"type:uuid;not null;index:idx_lineage_destination"`
	ProcessType        string          `gorm:"type:varchar(20);not null"`
	ProcessReferenceID *uuid.UUID      `gorm:"type:uuid"`
	Quantity           decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	UnitID             uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt          time.Time
	CreatedBy          *uuid.UUID `gorm:"type:uuid"`

	SourceBatch      *Batch `gorm:"foreignKey:SourceBatchID"`
	DestinationBatch *Batch `gorm:"foreignKey:DestinationBatchID"`
}
