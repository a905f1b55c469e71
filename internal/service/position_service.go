package service

import (
	"context"
	"sort"

	"batchtrace/internal/dto"
	"batchtrace/internal/model"
	"batchtrace/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type PositionService interface {
	// Compute replays the movement ledger for a batch and overlays active
	// reservations. Pure read, safe to call concurrently.
	Compute(ctx context.Context, batchID uuid.UUID) (*dto.StockPositionResponse, error)
}

type positionService struct {
	batches      repository.BatchRepository
	movements    repository.MovementRepository
	reservations repository.ReservationRepository
	warehouses   repository.WarehouseRepository
}

func NewPositionService(
	batches repository.BatchRepository,
	movements repository.MovementRepository,
	reservations repository.ReservationRepository,
	warehouses repository.WarehouseRepository,
) PositionService {
	return &positionService{
		batches:      batches,
		movements:    movements,
		reservations: reservations,
		warehouses:   warehouses,
	}
}

type positionKey struct {
	warehouseID uuid.UUID
	locationID  uuid.UUID
}

type positionAcc struct {
	onHand   decimal.Decimal
	reserved decimal.Decimal
}

func (s *positionService) Compute(ctx context.Context, batchID uuid.UUID) (*dto.StockPositionResponse, error) {
	if _, err := s.batches.FindByID(ctx, batchID); err != nil {
		return nil, translateNotFound(err, "batch", batchID.String())
	}

	entries, err := s.movements.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	// Replay in insertion order. Receipt adds, issue subtracts, transfer
	// subtracts at the source key and adds at the target key in one pass.
	acc := make(map[positionKey]*positionAcc)
	bump := func(k positionKey, delta decimal.Decimal) {
		p, ok := acc[k]
		if !ok {
			p = &positionAcc{onHand: decimal.Zero, reserved: decimal.Zero}
			acc[k] = p
		}
		p.onHand = p.onHand.Add(delta)
	}
	for i := range entries {
		e := &entries[i]
		key := positionKey{warehouseID: e.WarehouseID, locationID: e.LocationID}
		switch e.Type {
		case model.MovementReceipt:
			bump(key, e.Quantity)
		case model.MovementIssue:
			bump(key, e.Quantity.Neg())
		case model.MovementTransfer:
			bump(key, e.Quantity.Neg())
			if e.TargetWarehouseID != nil && e.TargetLocationID != nil {
				bump(positionKey{warehouseID: *e.TargetWarehouseID, locationID: *e.TargetLocationID}, e.Quantity)
			}
		}
	}

	// Overlay active reservations onto keys the ledger produced. A
	// reservation at a key with no movements contributes no on-hand and is
	// skipped here; the batch-total check at reservation time still counted
	// it.
	reservations, err := s.reservations.ListActiveByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	for i := range reservations {
		r := &reservations[i]
		key := positionKey{warehouseID: r.WarehouseID, locationID: r.LocationID}
		if p, ok := acc[key]; ok {
			p.reserved = p.reserved.Add(r.Quantity)
		}
	}

	resp := &dto.StockPositionResponse{
		BatchID:   batchID.String(),
		Positions: make([]dto.StockPosition, 0, len(acc)),
	}
	for key, p := range acc {
		available := p.onHand.Sub(p.reserved)
		if available.IsNegative() {
			// Reserved exceeding measured on-hand means the reservation
			// invariant was violated upstream. Clamp, never report negative.
			log.Warn().
				Str("batch_id", batchID.String()).
				Str("warehouse_id", key.warehouseID.String()).
				Str("location_id", key.locationID.String()).
				Str("on_hand", p.onHand.String()).
				Str("reserved", p.reserved.String()).
				Msg("reserved quantity exceeds on-hand, clamping available to zero")
			available = decimal.Zero
		}
		pos := dto.StockPosition{
			WarehouseID: key.warehouseID.String(),
			LocationID:  key.locationID.String(),
			OnHand:      p.onHand,
			Reserved:    p.reserved,
			Available:   available,
		}
		s.enrichNames(ctx, &pos, key)
		resp.Positions = append(resp.Positions, pos)
	}

	sort.Slice(resp.Positions, func(i, j int) bool {
		if resp.Positions[i].WarehouseID != resp.Positions[j].WarehouseID {
			return resp.Positions[i].WarehouseID < resp.Positions[j].WarehouseID
		}
		return resp.Positions[i].LocationID < resp.Positions[j].LocationID
	})
	return resp, nil
}

func (s *positionService) enrichNames(ctx context.Context, pos *dto.StockPosition, key positionKey) {
	if w, err := s.warehouses.FindByID(ctx, key.warehouseID); err == nil {
		pos.WarehouseName = w.Name
	}
	if l, err := s.warehouses.FindLocationByID(ctx, key.locationID); err == nil {
		pos.LocationName = l.Name
	}
}
