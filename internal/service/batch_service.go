package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"batchtrace/internal/apierror"
	"batchtrace/internal/dto"
	"batchtrace/internal/model"
	"batchtrace/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// allowedBatchTransitions enumerates the legal status changes. Anything not
// listed here is rejected with InvalidTransitionError.
var allowedBatchTransitions = map[string][]string{
	model.BatchStatusNew:      {model.BatchStatusReleased, model.BatchStatusBlocked},
	model.BatchStatusReleased: {model.BatchStatusBlocked},
	model.BatchStatusBlocked:  {model.BatchStatusReleased},
}

type BatchService interface {
	Create(ctx context.Context, req dto.CreateBatchRequest) (*dto.BatchResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.BatchResponse, error)
	GetByNumber(ctx context.Context, number string) (*dto.BatchResponse, error)
	Search(ctx context.Context, filter dto.BatchFilter) (*dto.BatchListResponse, error)
	SetStatus(ctx context.Context, id uuid.UUID, newStatus string) (*dto.BatchResponse, error)
}

type batchService struct {
	batches   repository.BatchRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
}

func NewBatchService(
	batches repository.BatchRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
) BatchService {
	return &batchService{batches: batches, products: products, suppliers: suppliers}
}

func (s *batchService) Create(ctx context.Context, req dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.NewDomainValidation("product_id is not a valid uuid")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewDomainValidation("product %s does not resolve", req.ProductID)
		}
		return nil, err
	}

	batch := &model.Batch{
		ProductID: productID,
		Status:    model.BatchStatusNew,
		Kind:      req.Kind,
	}
	if batch.Kind == "" {
		batch.Kind = model.BatchKindIncoming
	}

	if req.SupplierID != nil {
		supplierID, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, apierror.NewDomainValidation("supplier_id is not a valid uuid")
		}
		if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.NewDomainValidation("supplier %s does not resolve", *req.SupplierID)
			}
			return nil, err
		}
		batch.SupplierID = &supplierID
	}
	batch.SupplierBatchNumber = req.SupplierBatchNumber

	if req.ProductionDate != nil {
		d, err := time.Parse("2006-01-02", *req.ProductionDate)
		if err != nil {
			return nil, apierror.NewDomainValidation("production_date must be YYYY-MM-DD")
		}
		batch.ProductionDate = &d
	}
	if req.BestBeforeDate != nil {
		d, err := time.Parse("2006-01-02", *req.BestBeforeDate)
		if err != nil {
			return nil, apierror.NewDomainValidation("best_before_date must be YYYY-MM-DD")
		}
		batch.BestBeforeDate = &d
	}

	// The running sequence is scoped to (product code, day). A concurrent
	// create can claim the same number; the unique index catches that and
	// we recount.
	for attempt := 0; attempt < 3; attempt++ {
		number, err := s.nextBatchNumber(ctx, product.Code)
		if err != nil {
			return nil, err
		}
		batch.BatchNumber = number

		err = s.batches.Create(ctx, batch)
		if err == nil {
			resp := toBatchResponse(batch)
			resp.ProductName = product.Name
			log.Info().Str("batch_number", batch.BatchNumber).Str("product", product.Code).Msg("batch created")
			return resp, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("could not allocate a unique batch number for product %s", product.Code)
}

func (s *batchService) nextBatchNumber(ctx context.Context, productCode string) (string, error) {
	prefix := fmt.Sprintf("%s-%s-", time.Now().Format("20060102"), productCode)
	n, err := s.batches.CountByNumberPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, n+1), nil
}

func (s *batchService) Get(ctx context.Context, id uuid.UUID) (*dto.BatchResponse, error) {
	batch, err := s.batches.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "batch", id.String())
	}
	return toBatchResponse(batch), nil
}

func (s *batchService) GetByNumber(ctx context.Context, number string) (*dto.BatchResponse, error) {
	batch, err := s.batches.FindByNumber(ctx, number)
	if err != nil {
		return nil, translateNotFound(err, "batch", number)
	}
	return toBatchResponse(batch), nil
}

func (s *batchService) Search(ctx context.Context, filter dto.BatchFilter) (*dto.BatchListResponse, error) {
	batches, total, err := s.batches.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.BatchListResponse{
		Data:  make([]dto.BatchResponse, 0, len(batches)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range batches {
		resp.Data = append(resp.Data, *toBatchResponse(&batches[i]))
	}
	return resp, nil
}

func (s *batchService) SetStatus(ctx context.Context, id uuid.UUID, newStatus string) (*dto.BatchResponse, error) {
	batch, err := s.batches.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "batch", id.String())
	}

	if !transitionAllowed(batch.Status, newStatus) {
		return nil, &apierror.InvalidTransitionError{Entity: "batch", From: batch.Status, To: newStatus}
	}

	batch.Status = newStatus
	if err := s.batches.Update(ctx, batch); err != nil {
		return nil, err
	}
	log.Info().Str("batch_number", batch.BatchNumber).Str("status", newStatus).Msg("batch status changed")
	return toBatchResponse(batch), nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range allowedBatchTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func toBatchResponse(b *model.Batch) *dto.BatchResponse {
	resp := &dto.BatchResponse{
		ID:                  b.ID.String(),
		BatchNumber:         b.BatchNumber,
		ProductID:           b.ProductID.String(),
		SupplierBatchNumber: b.SupplierBatchNumber,
		Status:              b.Status,
		Kind:                b.Kind,
		CreatedAt:           b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           b.UpdatedAt.Format(time.RFC3339),
	}
	if b.SupplierID != nil {
		id := b.SupplierID.String()
		resp.SupplierID = &id
	}
	if b.ProductionDate != nil {
		d := b.ProductionDate.Format("2006-01-02")
		resp.ProductionDate = &d
	}
	if b.BestBeforeDate != nil {
		d := b.BestBeforeDate.Format("2006-01-02")
		resp.BestBeforeDate = &d
	}
	if b.Product != nil {
		resp.ProductName = b.Product.Name
	}
	if b.Supplier != nil {
		resp.SupplierName = b.Supplier.Name
	}
	return resp
}
