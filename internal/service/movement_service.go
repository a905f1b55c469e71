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
)

type MovementService interface {
	Post(ctx context.Context, req dto.PostMovementRequest, createdBy *uuid.UUID) (*dto.MovementResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.MovementResponse, error)
	List(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
}

type movementService struct {
	movements  repository.MovementRepository
	batches    repository.BatchRepository
	warehouses repository.WarehouseRepository
}

func NewMovementService(
	movements repository.MovementRepository,
	batches repository.BatchRepository,
	warehouses repository.WarehouseRepository,
) MovementService {
	return &movementService{movements: movements, batches: batches, warehouses: warehouses}
}

// Post appends one entry to the ledger. The entry is immutable once written;
// stock levels are never cached inline, they are derived by the position
// calculator.
func (s *movementService) Post(ctx context.Context, req dto.PostMovementRequest, createdBy *uuid.UUID) (*dto.MovementResponse, error) {
	if !req.Quantity.IsPositive() {
		return nil, apierror.NewDomainValidation("quantity must be greater than zero")
	}

	batchID, err := uuid.Parse(req.BatchID)
	if err != nil {
		return nil, apierror.NewDomainValidation("batch_id is not a valid uuid")
	}
	if _, err := s.batches.FindByID(ctx, batchID); err != nil {
		return nil, translateNotFound(err, "batch", req.BatchID)
	}

	warehouseID, locationID, err := s.resolveLocation(ctx, req.WarehouseID, req.LocationID)
	if err != nil {
		return nil, err
	}

	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		return nil, apierror.NewDomainValidation("unit_id is not a valid uuid")
	}

	entry := &model.MovementEntry{
		BatchID:       batchID,
		WarehouseID:   warehouseID,
		LocationID:    locationID,
		Type:          req.Type,
		Quantity:      req.Quantity,
		UnitID:        unitID,
		ReferenceType: req.ReferenceType,
		CreatedBy:     createdBy,
	}

	if req.Type == model.MovementTransfer {
		if req.TargetWarehouseID == nil || req.TargetLocationID == nil {
			return nil, apierror.NewDomainValidation("transfer requires target_warehouse_id and target_location_id")
		}
		targetWarehouseID, targetLocationID, err := s.resolveLocation(ctx, *req.TargetWarehouseID, *req.TargetLocationID)
		if err != nil {
			return nil, err
		}
		entry.TargetWarehouseID = &targetWarehouseID
		entry.TargetLocationID = &targetLocationID
	} else if req.TargetWarehouseID != nil || req.TargetLocationID != nil {
		return nil, apierror.NewDomainValidation("target location is only valid for transfers")
	}

	if req.ReferenceID != nil {
		refID, err := uuid.Parse(*req.ReferenceID)
		if err != nil {
			return nil, apierror.NewDomainValidation("reference_id is not a valid uuid")
		}
		entry.ReferenceID = &refID
	}

	if err := s.movements.Create(ctx, entry); err != nil {
		return nil, err
	}
	log.Info().
		Str("batch_id", entry.BatchID.String()).
		Str("type", entry.Type).
		Str("quantity", entry.Quantity.String()).
		Msg("movement posted")
	return toMovementResponse(entry), nil
}

func (s *movementService) resolveLocation(ctx context.Context, warehouse, location string) (uuid.UUID, uuid.UUID, error) {
	warehouseID, err := uuid.Parse(warehouse)
	if err != nil {
		return uuid.Nil, uuid.Nil, apierror.NewDomainValidation("warehouse_id is not a valid uuid")
	}
	if _, err := s.warehouses.FindByID(ctx, warehouseID); err != nil {
		return uuid.Nil, uuid.Nil, translateNotFound(err, "warehouse", warehouse)
	}

	locationID, err := uuid.Parse(location)
	if err != nil {
		return uuid.Nil, uuid.Nil, apierror.NewDomainValidation("location_id is not a valid uuid")
	}
	loc, err := s.warehouses.FindLocationByID(ctx, locationID)
	if err != nil {
		return uuid.Nil, uuid.Nil, translateNotFound(err, "location", location)
	}
	if loc.WarehouseID != warehouseID {
		return uuid.Nil, uuid.Nil, apierror.NewDomainValidation("location %s does not belong to warehouse %s", location, warehouse)
	}
	return warehouseID, locationID, nil
}

func (s *movementService) Get(ctx context.Context, id uuid.UUID) (*dto.MovementResponse, error) {
	entry, err := s.movements.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "movement", id.String())
	}
	return toMovementResponse(entry), nil
}

func (s *movementService) List(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	entries, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.MovementListResponse{
		Data:  make([]dto.MovementResponse, 0, len(entries)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range entries {
		resp.Data = append(resp.Data, *toMovementResponse(&entries[i]))
	}
	return resp, nil
}

func toMovementResponse(m *model.MovementEntry) *dto.MovementResponse {
	resp := &dto.MovementResponse{
		ID:            m.ID.String(),
		BatchID:       m.BatchID.String(),
		WarehouseID:   m.WarehouseID.String(),
		LocationID:    m.LocationID.String(),
		Type:          m.Type,
		Quantity:      m.Quantity,
		UnitID:        m.UnitID.String(),
		ReferenceType: m.ReferenceType,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
	if m.TargetWarehouseID != nil {
		id := m.TargetWarehouseID.String()
		resp.TargetWarehouseID = &id
	}
	if m.TargetLocationID != nil {
		id := m.TargetLocationID.String()
		resp.TargetLocationID = &id
	}
	if m.ReferenceID != nil {
		id := m.ReferenceID.String()
		resp.ReferenceID = &id
	}
	if m.CreatedBy != nil {
		id := m.CreatedBy.String()
		resp.CreatedBy = &id
	}
	if m.Batch != nil {
		resp.BatchNumber = m.Batch.BatchNumber
	}
	return resp
}
