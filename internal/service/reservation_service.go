package service

import (
	"context"
	"time"

	"batchtrace/internal/apierror"
	"batchtrace/internal/dto"
	"batchtrace/internal/model"
	"batchtrace/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReservationService interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (*dto.ReservationResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateReservationRequest) (*dto.ReservationResponse, error)
	List(ctx context.Context, filter dto.ReservationFilter) (*dto.ReservationListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ReservationResponse, error)
}

type reservationService struct {
	db           *gorm.DB
	batches      repository.BatchRepository
	movements    repository.MovementRepository
	reservations repository.ReservationRepository
	warehouses   repository.WarehouseRepository
}

func NewReservationService(
	db *gorm.DB,
	batches repository.BatchRepository,
	movements repository.MovementRepository,
	reservations repository.ReservationRepository,
	warehouses repository.WarehouseRepository,
) ReservationService {
	return &reservationService{
		db:           db,
		batches:      batches,
		movements:    movements,
		reservations: reservations,
		warehouses:   warehouses,
	}
}

// Create places an active hold against the batch. The availability check and
// the insert run inside one transaction holding a row lock on the batch, so
// concurrent reservations against the same batch serialize instead of racing
// past each other.
//
// Availability is checked against the batch's total on-hand summed across all
// locations, not the specific location the reservation targets.
func (s *reservationService) Create(ctx context.Context, req dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
	if !req.Quantity.IsPositive() {
		return nil, apierror.NewDomainValidation("quantity must be greater than zero")
	}

	batchID, err := uuid.Parse(req.BatchID)
	if err != nil {
		return nil, apierror.NewDomainValidation("batch_id is not a valid uuid")
	}
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return nil, apierror.NewDomainValidation("warehouse_id is not a valid uuid")
	}
	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		return nil, apierror.NewDomainValidation("location_id is not a valid uuid")
	}
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		return nil, apierror.NewDomainValidation("unit_id is not a valid uuid")
	}

	if _, err := s.warehouses.FindByID(ctx, warehouseID); err != nil {
		return nil, translateNotFound(err, "warehouse", req.WarehouseID)
	}
	if _, err := s.warehouses.FindLocationByID(ctx, locationID); err != nil {
		return nil, translateNotFound(err, "location", req.LocationID)
	}

	res := &model.Reservation{
		BatchID:     batchID,
		WarehouseID: warehouseID,
		LocationID:  locationID,
		Quantity:    req.Quantity,
		UnitID:      unitID,
		Status:      model.ReservationActive,
	}

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.batches.FindByIDForUpdate(tx, batchID); err != nil {
			return translateNotFound(err, "batch", req.BatchID)
		}
		available, err := s.availableTx(tx, batchID, uuid.Nil)
		if err != nil {
			return err
		}
		if req.Quantity.GreaterThan(available) {
			return &apierror.InsufficientStockError{Available: available, Requested: req.Quantity}
		}
		return s.reservations.CreateTx(tx, res)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("batch_id", batchID.String()).
		Str("quantity", req.Quantity.String()).
		Msg("reservation created")
	return toReservationResponse(res), nil
}

// availableTx computes batch-total on-hand minus the sum of active
// reservations, optionally excluding one reservation id (the increase path
// excludes its own prior quantity).
func (s *reservationService) availableTx(tx *gorm.DB, batchID, exclude uuid.UUID) (decimal.Decimal, error) {
	onHand, err := s.movements.TotalOnHandTx(tx, batchID)
	if err != nil {
		return decimal.Zero, err
	}
	reserved, err := s.reservations.SumActiveTx(tx, batchID, exclude)
	if err != nil {
		return decimal.Zero, err
	}
	return onHand.Sub(reserved), nil
}

func (s *reservationService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateReservationRequest) (*dto.ReservationResponse, error) {
	if req.Quantity == nil && req.Status == nil {
		return nil, apierror.NewDomainValidation("nothing to update")
	}
	if req.Quantity != nil && !req.Quantity.IsPositive() {
		return nil, apierror.NewDomainValidation("quantity must be greater than zero")
	}

	var updated *model.Reservation
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		// Lock the reservation row so concurrent mutations of the same
		// reservation serialize and the status check runs against committed
		// state. Lock order is reservation first, then batch (increase path).
		res, err := s.reservations.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return translateNotFound(err, "reservation", id.String())
		}

		if req.Status != nil && *req.Status != res.Status {
			if res.Status != model.ReservationActive {
				return &apierror.InvalidTransitionError{Entity: "reservation", From: res.Status, To: *req.Status}
			}
			switch *req.Status {
			case model.ReservationReleased, model.ReservationFulfilled:
				res.Status = *req.Status
			default:
				return &apierror.InvalidTransitionError{Entity: "reservation", From: res.Status, To: *req.Status}
			}
		}

		if req.Quantity != nil && !req.Quantity.Equal(res.Quantity) {
			if res.Status != model.ReservationActive {
				return apierror.NewDomainValidation("quantity can only change on an active reservation")
			}
			// Increases re-run the availability check with the batch row
			// locked, excluding this reservation's own prior quantity.
			// Decreases always pass.
			if req.Quantity.GreaterThan(res.Quantity) {
				if _, err := s.batches.FindByIDForUpdate(tx, res.BatchID); err != nil {
					return translateNotFound(err, "batch", res.BatchID.String())
				}
				available, err := s.availableTx(tx, res.BatchID, res.ID)
				if err != nil {
					return err
				}
				if req.Quantity.GreaterThan(available) {
					return &apierror.InsufficientStockError{Available: available, Requested: *req.Quantity}
				}
			}
			res.Quantity = *req.Quantity
		}

		updated = res
		return s.reservations.UpdateTx(tx, res)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("reservation_id", id.String()).Msg("reservation updated")
	return toReservationResponse(updated), nil
}

func (s *reservationService) Get(ctx context.Context, id uuid.UUID) (*dto.ReservationResponse, error) {
	res, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "reservation", id.String())
	}
	return toReservationResponse(res), nil
}

func (s *reservationService) List(ctx context.Context, filter dto.ReservationFilter) (*dto.ReservationListResponse, error) {
	reservations, total, err := s.reservations.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ReservationListResponse{
		Data:  make([]dto.ReservationResponse, 0, len(reservations)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range reservations {
		resp.Data = append(resp.Data, *toReservationResponse(&reservations[i]))
	}
	return resp, nil
}

func toReservationResponse(r *model.Reservation) *dto.ReservationResponse {
	return &dto.ReservationResponse{
		ID:          r.ID.String(),
		BatchID:     r.BatchID.String(),
		WarehouseID: r.WarehouseID.String(),
		LocationID:  r.LocationID.String(),
		Quantity:    r.Quantity,
		UnitID:      r.UnitID.String(),
		Status:      r.Status,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.Format(time.RFC3339),
	}
}
