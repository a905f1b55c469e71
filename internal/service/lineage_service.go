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

type LineageService interface {
	Link(ctx context.Context, req dto.LinkBatchesRequest, createdBy *uuid.UUID) (*dto.LineageLinkResponse, error)
	// TraceForward returns the one-hop usages of a batch, each flagged with
	// whether the destination has further forward links. Callers recurse by
	// re-invoking with the destination batch id.
	TraceForward(ctx context.Context, batchID uuid.UUID) (*dto.TraceForwardResponse, error)
	TraceBackward(ctx context.Context, batchID uuid.UUID) (*dto.TraceBackwardResponse, error)
}

type lineageService struct {
	links   repository.LineageRepository
	batches repository.BatchRepository
}

func NewLineageService(links repository.LineageRepository, batches repository.BatchRepository) LineageService {
	return &lineageService{links: links, batches: batches}
}

func (s *lineageService) Link(ctx context.Context, req dto.LinkBatchesRequest, createdBy *uuid.UUID) (*dto.LineageLinkResponse, error) {
	if !req.Quantity.IsPositive() {
		return nil, apierror.NewDomainValidation("quantity must be greater than zero")
	}

	sourceID, err := uuid.Parse(req.SourceBatchID)
	if err != nil {
		return nil, apierror.NewDomainValidation("source_batch_id is not a valid uuid")
	}
	destinationID, err := uuid.Parse(req.DestinationBatchID)
	if err != nil {
		return nil, apierror.NewDomainValidation("destination_batch_id is not a valid uuid")
	}
	if sourceID == destinationID {
		return nil, apierror.NewDomainValidation("a batch cannot be linked to itself")
	}
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		return nil, apierror.NewDomainValidation("unit_id is not a valid uuid")
	}

	if _, err := s.batches.FindByID(ctx, sourceID); err != nil {
		return nil, translateNotFound(err, "batch", req.SourceBatchID)
	}
	if _, err := s.batches.FindByID(ctx, destinationID); err != nil {
		return nil, translateNotFound(err, "batch", req.DestinationBatchID)
	}

	link := &model.LineageLink{
		SourceBatchID:      sourceID,
		DestinationBatchID: destinationID,
		ProcessType:        req.ProcessType,
		Quantity:           req.Quantity,
		UnitID:             unitID,
		CreatedBy:          createdBy,
	}
	if req.ProcessReferenceID != nil {
		refID, err := uuid.Parse(*req.ProcessReferenceID)
		if err != nil {
			return nil, apierror.NewDomainValidation("process_reference_id is not a valid uuid")
		}
		link.ProcessReferenceID = &refID
	}

	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}
	log.Info().
		Str("source", sourceID.String()).
		Str("destination", destinationID.String()).
		Str("process", req.ProcessType).
		Msg("batches linked")
	return toLineageLinkResponse(link), nil
}

func (s *lineageService) TraceForward(ctx context.Context, batchID uuid.UUID) (*dto.TraceForwardResponse, error) {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		return nil, translateNotFound(err, "batch", batchID.String())
	}

	links, err := s.links.ListBySource(ctx, batchID)
	if err != nil {
		return nil, err
	}

	resp := &dto.TraceForwardResponse{
		Batch:  toBatchRef(batch),
		Usages: make([]dto.TraceUsage, 0, len(links)),
	}
	for i := range links {
		l := &links[i]
		further, err := s.links.HasSource(ctx, l.DestinationBatchID)
		if err != nil {
			return nil, err
		}
		resp.Usages = append(resp.Usages, dto.TraceUsage{
			LinkID:          l.ID.String(),
			ProcessType:     l.ProcessType,
			Date:            l.CreatedAt.Format(time.RFC3339),
			Quantity:        l.Quantity,
			UnitID:          l.UnitID.String(),
			Destination:     toBatchRef(l.DestinationBatch),
			HasFurtherUsage: further,
		})
	}
	return resp, nil
}

func (s *lineageService) TraceBackward(ctx context.Context, batchID uuid.UUID) (*dto.TraceBackwardResponse, error) {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		return nil, translateNotFound(err, "batch", batchID.String())
	}

	links, err := s.links.ListByDestination(ctx, batchID)
	if err != nil {
		return nil, err
	}

	resp := &dto.TraceBackwardResponse{
		Batch:      toBatchRef(batch),
		Components: make([]dto.TraceComponent, 0, len(links)),
	}
	for i := range links {
		l := &links[i]
		further, err := s.links.HasDestination(ctx, l.SourceBatchID)
		if err != nil {
			return nil, err
		}
		resp.Components = append(resp.Components, dto.TraceComponent{
			LinkID:               l.ID.String(),
			ProcessType:          l.ProcessType,
			Date:                 l.CreatedAt.Format(time.RFC3339),
			Quantity:             l.Quantity,
			UnitID:               l.UnitID.String(),
			Source:               toBatchRef(l.SourceBatch),
			HasFurtherComponents: further,
		})
	}
	return resp, nil
}

func toBatchRef(b *model.Batch) dto.BatchRef {
	if b == nil {
		return dto.BatchRef{}
	}
	ref := dto.BatchRef{ID: b.ID.String(), BatchNumber: b.BatchNumber}
	if b.Product != nil {
		ref.ProductName = b.Product.Name
	}
	return ref
}

func toLineageLinkResponse(l *model.LineageLink) *dto.LineageLinkResponse {
	resp := &dto.LineageLinkResponse{
		ID:                 l.ID.String(),
		SourceBatchID:      l.SourceBatchID.String(),
		DestinationBatchID: l.DestinationBatchID.String(),
		ProcessType:        l.ProcessType,
		Quantity:           l.Quantity,
		UnitID:             l.UnitID.String(),
		CreatedAt:          l.CreatedAt.Format(time.RFC3339),
	}
	if l.ProcessReferenceID != nil {
		id := l.ProcessReferenceID.String()
		resp.ProcessReferenceID = &id
	}
	return resp
}
