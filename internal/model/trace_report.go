package model

import (
	"time"

	"github.com/google/uuid"
)

// Trace report directions and statuses.
const (
	TraceForward  = "forward"
	TraceBackward = "backward"

	ReportPending = "pending"
	ReportDone    = "done"
	ReportError   = "error"
)

// TraceReport tracks an async traceability PDF generation job. Generation
// runs on the worker pool; failed jobs are retried by a cron with
// exponential backoff and dead-lettered after the retry budget is spent.
type TraceReport struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Direction   string    `gorm:"type:varchar(10);not null"`
	Status      string    `gorm:"type:varchar(10);not null;default:'pending'"`
	PDFPath     *string
	RetryCount  int `gorm:"not null;default:0"`
	NextRetryAt *time.Time
	LastError   *string
	RequestedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Batch *Batch `gorm:"foreignKey:BatchID"`
}
