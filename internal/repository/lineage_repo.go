package repository

import (
	"context"

	"batchtrace/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LineageRepository interface {
	Create(ctx context.Context, l *model.LineageLink) error
	// ListBySource returns the one-hop forward edges of a batch with the
	// destination batches and their products preloaded.
	ListBySource(ctx context.Context, batchID uuid.UUID) ([]model.LineageLink, error)
	ListByDestination(ctx context.Context, batchID uuid.UUID) ([]model.LineageLink, error)
	// HasSource reports whether any link originates at the batch. It backs
	// the continuation flag on forward traversal.
	HasSource(ctx context.Context, batchID uuid.UUID) (bool, error)
	HasDestination(ctx context.Context, batchID uuid.UUID) (bool, error)
}

type lineageRepo struct{ db *gorm.DB }

func NewLineageRepository(db *gorm.DB) LineageRepository { return &lineageRepo{db: db} }

func (r *lineageRepo) Create(ctx context.Context, l *model.LineageLink) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *lineageRepo) ListBySource(ctx context.Context, batchID uuid.UUID) ([]model.LineageLink, error) {
	var links []model.LineageLink
	err := r.db.WithContext(ctx).
		Preload("DestinationBatch").
		Preload("DestinationBatch.Product").
		Where("source_batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&links).Error
	return links, err
}

func (r *lineageRepo) ListByDestination(ctx context.Context, batchID uuid.UUID) ([]model.LineageLink, error) {
	var links []model.LineageLink
	err := r.db.WithContext(ctx).
		Preload("SourceBatch").
		Preload("SourceBatch.Product").
		Where("destination_batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&links).Error
	return links, err
}

func (r *lineageRepo) HasSource(ctx context.Context, batchID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.LineageLink{}).
		Where("source_batch_id = ?", batchID).
		Count(&n).Error
	return n > 0, err
}

func (r *lineageRepo) HasDestination(ctx context.Context, batchID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.LineageLink{}).
		Where("destination_batch_id = ?", batchID).
		Count(&n).Error
	return n > 0, err
}
