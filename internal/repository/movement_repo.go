package repository

import (
	"context"

	"batchtrace/internal/dto"
	"batchtrace/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MovementRepository interface {
	Create(ctx context.Context, m *model.MovementEntry) error
	CreateTx(tx *gorm.DB, m *model.MovementEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MovementEntry, error)
	// ListByBatch returns every entry for a batch in insertion order
	// (ascending seq), the replay input for the position calculator.
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]model.MovementEntry, error)
	List(ctx context.Context, filter dto.MovementFilter) ([]model.MovementEntry, int64, error)
	// TotalOnHandTx sums receipts minus issues for a batch across all
	// locations inside tx. Transfers are net zero at batch scope and are
	// excluded from the sum.
	TotalOnHandTx(tx *gorm.DB, batchID uuid.UUID) (decimal.Decimal, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) Create(ctx context.Context, m *model.MovementEntry) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.MovementEntry) error {
	return tx.Create(m).Error
}

func (r *movementRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MovementEntry, error) {
	var m model.MovementEntry
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *movementRepo) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]model.MovementEntry, error) {
	var entries []model.MovementEntry
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("seq ASC").
		Find(&entries).Error
	return entries, err
}

func (r *movementRepo) List(ctx context.Context, filter dto.MovementFilter) ([]model.MovementEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovementEntry{}).Preload("Batch")
	if filter.BatchID != "" {
		q = q.Where("batch_id = ?", filter.BatchID)
	}
	if filter.WarehouseID != "" {
		q = q.Where("warehouse_id = ? OR target_warehouse_id = ?", filter.WarehouseID, filter.WarehouseID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
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
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var entries []model.MovementEntry
	err := q.Order("seq ASC").Offset((page - 1) * limit).Limit(limit).Find(&entries).Error
	return entries, total, err
}

func (r *movementRepo) TotalOnHandTx(tx *gorm.DB, batchID uuid.UUID) (decimal.Decimal, error) {
	var result struct{ Total decimal.Decimal }
	err := tx.Raw(`
		SELECT COALESCE(SUM(CASE type
			WHEN 'receipt' THEN quantity
			WHEN 'issue'   THEN -quantity
			ELSE 0 END), 0) AS total
		FROM movement_entries
		WHERE batch_id = ?
	`, batchID).Scan(&result).Error
	return result.Total, err
}
