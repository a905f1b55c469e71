package repository

import (
	"context"
	"time"

	"batchtrace/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, r *model.TraceReport) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TraceReport, error)
	Update(ctx context.Context, r *model.TraceReport) error
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]model.TraceReport, error)
	// ListPendingRetries returns errored reports whose next retry time has
	// passed, oldest first, bounded by batchSize.
	ListPendingRetries(ctx context.Context, now time.Time, batchSize int) ([]model.TraceReport, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) Create(ctx context.Context, tr *model.TraceReport) error {
	return r.db.WithContext(ctx).Create(tr).Error
}

func (r *reportRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TraceReport, error) {
	var tr model.TraceReport
	err := r.db.WithContext(ctx).First(&tr, "id = ?", id).Error
	return &tr, err
}

func (r *reportRepo) Update(ctx context.Context, tr *model.TraceReport) error {
	return r.db.WithContext(ctx).Save(tr).Error
}

func (r *reportRepo) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]model.TraceReport, error) {
	var reports []model.TraceReport
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (r *reportRepo) ListPendingRetries(ctx context.Context, now time.Time, batchSize int) ([]model.TraceReport, error) {
	var reports []model.TraceReport
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", model.ReportError, now).
		Order("next_retry_at ASC").
		Limit(batchSize).
		Find(&reports).Error
	return reports, err
}
