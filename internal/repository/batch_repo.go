package repository

import (
	"context"
	"time"

	"batchtrace/internal/dto"
	"batchtrace/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BatchRepository interface {
	Create(ctx context.Context, b *model.Batch) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Batch, error)
	FindByNumber(ctx context.Context, number string) (*model.Batch, error)
	// FindByIDForUpdate takes a row-level lock on the batch inside tx.
	// Reservation mutations acquire it to serialize the check-then-act
	// availability sequence per batch.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Batch, error)
	CountByNumberPrefix(ctx context.Context, prefix string) (int64, error)
	Search(ctx context.Context, filter dto.BatchFilter) ([]model.Batch, int64, error)
	Update(ctx context.Context, b *model.Batch) error
	// ListExpired returns batches whose best_before_date lies before cutoff
	// and which are still in one of the given statuses.
	ListExpired(ctx context.Context, cutoff time.Time, statuses []string, limit int) ([]model.Batch, error)
}

type batchRepo struct{ db *gorm.DB }

func NewBatchRepository(db *gorm.DB) BatchRepository { return &batchRepo{db: db} }

func (r *batchRepo) Create(ctx context.Context, b *model.Batch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *batchRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Batch, error) {
	var b model.Batch
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Supplier").
		First(&b, "id = ?", id).Error
	return &b, err
}

func (r *batchRepo) FindByNumber(ctx context.Context, number string) (*model.Batch, error) {
	var b model.Batch
	err := r.db.WithContext(ctx).
		Preload("Product").
		First(&b, "batch_number = ?", number).Error
	return &b, err
}

func (r *batchRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Batch, error) {
	var b model.Batch
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, "id = ?", id).Error
	return &b, err
}

func (r *batchRepo) CountByNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Batch{}).
		Where("batch_number LIKE ?", prefix+"%").
		Count(&n).Error
	return n, err
}

func (r *batchRepo) Search(ctx context.Context, filter dto.BatchFilter) ([]model.Batch, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Batch{}).
		Preload("Product").
		Preload("Supplier")
	if filter.BatchNumber != "" {
		q = q.Where("batch_number ILIKE ?", "%"+filter.BatchNumber+"%")
	}
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != "" && filter.DateTo != "" {
		q = q.Where("production_date BETWEEN ? AND ?", filter.DateFrom, filter.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var batches []model.Batch
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&batches).Error
	return batches, total, err
}

func (r *batchRepo) Update(ctx context.Context, b *model.Batch) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *batchRepo) ListExpired(ctx context.Context, cutoff time.Time, statuses []string, limit int) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("best_before_date IS NOT NULL AND best_before_date < ?", cutoff).
		Where("status IN ?", statuses).
		Order("best_before_date ASC").
		Limit(limit).
		Find(&batches).Error
	return batches, err
}
