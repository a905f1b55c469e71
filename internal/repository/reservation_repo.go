package repository

import (
	"context"

	"batchtrace/internal/dto"
	"batchtrace/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationRepository interface {
	CreateTx(tx *gorm.DB, res *model.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	// FindByIDForUpdateTx takes a row-level lock on the reservation inside
	// tx. Mutations read through it so the status check and the final write
	// see the same committed state.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Reservation, error)
	List(ctx context.Context, filter dto.ReservationFilter) ([]model.Reservation, int64, error)
	ListActiveByBatch(ctx context.Context, batchID uuid.UUID) ([]model.Reservation, error)
	// SumActiveTx sums active reservation quantities for a batch inside tx,
	// optionally excluding one reservation (the one being increased).
	SumActiveTx(tx *gorm.DB, batchID uuid.UUID, exclude uuid.UUID) (decimal.Decimal, error)
	UpdateTx(tx *gorm.DB, res *model.Reservation) error
}

type reservationRepo struct{ db *gorm.DB }

func NewReservationRepository(db *gorm.DB) ReservationRepository { return &reservationRepo{db: db} }

func (r *reservationRepo) CreateTx(tx *gorm.DB, res *model.Reservation) error {
	return tx.Create(res).Error
}

func (r *reservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	var res model.Reservation
	err := r.db.WithContext(ctx).First(&res, "id = ?", id).Error
	return &res, err
}

func (r *reservationRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Reservation, error) {
	var res model.Reservation
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&res, "id = ?", id).Error
	return &res, err
}

func (r *reservationRepo) List(ctx context.Context, filter dto.ReservationFilter) ([]model.Reservation, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Reservation{})
	if filter.BatchID != "" {
		q = q.Where("batch_id = ?", filter.BatchID)
	}
	if filter.WarehouseID != "" {
		q = q.Where("warehouse_id = ?", filter.WarehouseID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
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

	var reservations []model.Reservation
	err := q.Order("created_at ASC").Offset((page - 1) * limit).Limit(limit).Find(&reservations).Error
	return reservations, total, err
}

func (r *reservationRepo) ListActiveByBatch(ctx context.Context, batchID uuid.UUID) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Where("batch_id = ? AND status = ?", batchID, model.ReservationActive).
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) SumActiveTx(tx *gorm.DB, batchID uuid.UUID, exclude uuid.UUID) (decimal.Decimal, error) {
	var result struct{ Total decimal.Decimal }
	q := tx.Model(&model.Reservation{}).
		Select("COALESCE(SUM(quantity), 0) AS total").
		Where("batch_id = ? AND status = ?", batchID, model.ReservationActive)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	err := q.Scan(&result).Error
	return result.Total, err
}

func (r *reservationRepo) UpdateTx(tx *gorm.DB, res *model.Reservation) error {
	return tx.Save(res).Error
}
