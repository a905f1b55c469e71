package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"batchtrace/internal/dto"
	"batchtrace/internal/model"
	"batchtrace/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. Services run with a nil *gorm.DB so runTx
// passes a nil tx straight through.

type stubBatchRepo struct {
	batches map[uuid.UUID]*model.Batch
}

var _ repository.BatchRepository = (*stubBatchRepo)(nil)

func newStubBatchRepo() *stubBatchRepo {
	return &stubBatchRepo{batches: make(map[uuid.UUID]*model.Batch)}
}

func (r *stubBatchRepo) Create(_ context.Context, b *model.Batch) error {
	for _, existing := range r.batches {
		if existing.BatchNumber == b.BatchNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.batches[b.ID] = b
	return nil
}

func (r *stubBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Batch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *stubBatchRepo) FindByNumber(_ context.Context, number string) (*model.Batch, error) {
	for _, b := range r.batches {
		if b.BatchNumber == number {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubBatchRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Batch, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubBatchRepo) CountByNumberPrefix(_ context.Context, prefix string) (int64, error) {
	var n int64
	for _, b := range r.batches {
		if strings.HasPrefix(b.BatchNumber, prefix) {
			n++
		}
	}
	return n, nil
}

func (r *stubBatchRepo) Search(_ context.Context, filter dto.BatchFilter) ([]model.Batch, int64, error) {
	var out []model.Batch
	for _, b := range r.batches {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.ProductID != "" && b.ProductID.String() != filter.ProductID {
			continue
		}
		if filter.BatchNumber != "" && !strings.Contains(b.BatchNumber, filter.BatchNumber) {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *stubBatchRepo) Update(_ context.Context, b *model.Batch) error {
	if _, ok := r.batches[b.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	b.UpdatedAt = time.Now()
	r.batches[b.ID] = b
	return nil
}

func (r *stubBatchRepo) ListExpired(_ context.Context, cutoff time.Time, statuses []string, limit int) ([]model.Batch, error) {
	var out []model.Batch
	for _, b := range r.batches {
		if b.BestBeforeDate == nil || !b.BestBeforeDate.Before(cutoff) {
			continue
		}
		for _, s := range statuses {
			if b.Status == s {
				out = append(out, *b)
				break
			}
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type stubMovementRepo struct {
	entries []*model.MovementEntry
	lastSeq int64
}

var _ repository.MovementRepository = (*stubMovementRepo)(nil)

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) Create(_ context.Context, m *model.MovementEntry) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.lastSeq++
	m.Seq = r.lastSeq
	m.CreatedAt = time.Now()
	r.entries = append(r.entries, m)
	return nil
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.MovementEntry) error {
	return r.Create(context.Background(), m)
}

func (r *stubMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MovementEntry, error) {
	for _, m := range r.entries {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMovementRepo) ListByBatch(_ context.Context, batchID uuid.UUID) ([]model.MovementEntry, error) {
	var out []model.MovementEntry
	for _, m := range r.entries {
		if m.BatchID == batchID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *stubMovementRepo) List(_ context.Context, filter dto.MovementFilter) ([]model.MovementEntry, int64, error) {
	var out []model.MovementEntry
	for _, m := range r.entries {
		if filter.BatchID != "" && m.BatchID.String() != filter.BatchID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) TotalOnHandTx(_ *gorm.DB, batchID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.entries {
		if m.BatchID != batchID {
			continue
		}
		switch m.Type {
		case model.MovementReceipt:
			total = total.Add(m.Quantity)
		case model.MovementIssue:
			total = total.Sub(m.Quantity)
		}
	}
	return total, nil
}

type stubReservationRepo struct {
	reservations []*model.Reservation
}

var _ repository.ReservationRepository = (*stubReservationRepo)(nil)

func newStubReservationRepo() *stubReservationRepo { return &stubReservationRepo{} }

func (r *stubReservationRepo) CreateTx(_ *gorm.DB, res *model.Reservation) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	r.reservations = append(r.reservations, res)
	return nil
}

func (r *stubReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	for _, res := range r.reservations {
		if res.ID == id {
			return res, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubReservationRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Reservation, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubReservationRepo) List(_ context.Context, filter dto.ReservationFilter) ([]model.Reservation, int64, error) {
	var out []model.Reservation
	for _, res := range r.reservations {
		if filter.BatchID != "" && res.BatchID.String() != filter.BatchID {
			continue
		}
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		out = append(out, *res)
	}
	return out, int64(len(out)), nil
}

func (r *stubReservationRepo) ListActiveByBatch(_ context.Context, batchID uuid.UUID) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, res := range r.reservations {
		if res.BatchID == batchID && res.Status == model.ReservationActive {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *stubReservationRepo) SumActiveTx(_ *gorm.DB, batchID uuid.UUID, exclude uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, res := range r.reservations {
		if res.BatchID != batchID || res.Status != model.ReservationActive {
			continue
		}
		if exclude != uuid.Nil && res.ID == exclude {
			continue
		}
		total = total.Add(res.Quantity)
	}
	return total, nil
}

func (r *stubReservationRepo) UpdateTx(_ *gorm.DB, res *model.Reservation) error {
	for i, existing := range r.reservations {
		if existing.ID == res.ID {
			res.UpdatedAt = time.Now()
			r.reservations[i] = res
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubLineageRepo struct {
	links   []*model.LineageLink
	batches *stubBatchRepo
}

var _ repository.LineageRepository = (*stubLineageRepo)(nil)

func newStubLineageRepo(batches *stubBatchRepo) *stubLineageRepo {
	return &stubLineageRepo{batches: batches}
}

func (r *stubLineageRepo) Create(_ context.Context, l *model.LineageLink) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()
	r.links = append(r.links, l)
	return nil
}

func (r *stubLineageRepo) ListBySource(_ context.Context, batchID uuid.UUID) ([]model.LineageLink, error) {
	var out []model.LineageLink
	for _, l := range r.links {
		if l.SourceBatchID == batchID {
			link := *l
			link.DestinationBatch = r.batches.batches[l.DestinationBatchID]
			out = append(out, link)
		}
	}
	return out, nil
}

func (r *stubLineageRepo) ListByDestination(_ context.Context, batchID uuid.UUID) ([]model.LineageLink, error) {
	var out []model.LineageLink
	for _, l := range r.links {
		if l.DestinationBatchID == batchID {
			link := *l
			link.SourceBatch = r.batches.batches[l.SourceBatchID]
			out = append(out, link)
		}
	}
	return out, nil
}

func (r *stubLineageRepo) HasSource(_ context.Context, batchID uuid.UUID) (bool, error) {
	for _, l := range r.links {
		if l.SourceBatchID == batchID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubLineageRepo) HasDestination(_ context.Context, batchID uuid.UUID) (bool, error) {
	for _, l := range r.links {
		if l.DestinationBatchID == batchID {
			return true, nil
		}
	}
	return false, nil
}

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) ListActive(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) ListActive(_ context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range r.suppliers {
		if s.Active {
			out = append(out, *s)
		}
	}
	return out, nil
}

type stubWarehouseRepo struct {
	warehouses map[uuid.UUID]*model.Warehouse
	locations  map[uuid.UUID]*model.StorageLocation
}

var _ repository.WarehouseRepository = (*stubWarehouseRepo)(nil)

func newStubWarehouseRepo() *stubWarehouseRepo {
	return &stubWarehouseRepo{
		warehouses: make(map[uuid.UUID]*model.Warehouse),
		locations:  make(map[uuid.UUID]*model.StorageLocation),
	}
}

func (r *stubWarehouseRepo) Create(_ context.Context, w *model.Warehouse) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.warehouses[w.ID] = w
	return nil
}

func (r *stubWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return w, nil
}

func (r *stubWarehouseRepo) ListActive(_ context.Context) ([]model.Warehouse, error) {
	var out []model.Warehouse
	for _, w := range r.warehouses {
		if w.Active {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *stubWarehouseRepo) CreateLocation(_ context.Context, l *model.StorageLocation) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.locations[l.ID] = l
	return nil
}

func (r *stubWarehouseRepo) FindLocationByID(_ context.Context, id uuid.UUID) (*model.StorageLocation, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *stubWarehouseRepo) ListLocations(_ context.Context, warehouseID uuid.UUID) ([]model.StorageLocation, error) {
	var out []model.StorageLocation
	for _, l := range r.locations {
		if l.WarehouseID == warehouseID && l.Active {
			out = append(out, *l)
		}
	}
	return out, nil
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("bad uuid %q: %v", s, err)
	}
	return id
}

// fixtures shared across service tests.

type testEnv struct {
	batches      *stubBatchRepo
	movements    *stubMovementRepo
	reservations *stubReservationRepo
	lineage      *stubLineageRepo
	products     *stubProductRepo
	suppliers    *stubSupplierRepo
	warehouses   *stubWarehouseRepo

	product  *model.Product
	unit     uuid.UUID
	wh1, wh2 *model.Warehouse
	loc1     *model.StorageLocation
	loc2     *model.StorageLocation
}

func newTestEnv() *testEnv {
	env := &testEnv{
		batches:      newStubBatchRepo(),
		movements:    newStubMovementRepo(),
		reservations: newStubReservationRepo(),
		products:     newStubProductRepo(),
		suppliers:    newStubSupplierRepo(),
		warehouses:   newStubWarehouseRepo(),
		unit:         uuid.New(),
	}
	env.lineage = newStubLineageRepo(env.batches)

	ctx := context.Background()
	env.product = &model.Product{Code: "WHEAT", Name: "Wheat, milling grade", Active: true}
	_ = env.products.Create(ctx, env.product)

	env.wh1 = &model.Warehouse{Code: "MAIN", Name: "Main warehouse", Active: true}
	_ = env.warehouses.Create(ctx, env.wh1)
	env.wh2 = &model.Warehouse{Code: "EXT", Name: "External store", Active: true}
	_ = env.warehouses.Create(ctx, env.wh2)

	env.loc1 = &model.StorageLocation{WarehouseID: env.wh1.ID, Code: "A-01", Name: "Silo A-01", Active: true}
	_ = env.warehouses.CreateLocation(ctx, env.loc1)
	env.loc2 = &model.StorageLocation{WarehouseID: env.wh2.ID, Code: "E-01", Name: "Flat store E-01", Active: true}
	_ = env.warehouses.CreateLocation(ctx, env.loc2)

	return env
}

// newBatch registers a released batch directly in the stub.
func (env *testEnv) newBatch(number string) *model.Batch {
	b := &model.Batch{
		BatchNumber: number,
		ProductID:   env.product.ID,
		Status:      model.BatchStatusReleased,
		Kind:        model.BatchKindIncoming,
		Product:     env.product,
	}
	_ = env.batches.Create(context.Background(), b)
	return b
}

// receipt appends a receipt entry directly to the stub ledger.
func (env *testEnv) receipt(batch *model.Batch, qty string, warehouseID, locationID uuid.UUID) {
	_ = env.movements.Create(context.Background(), &model.MovementEntry{
		BatchID:     batch.ID,
		WarehouseID: warehouseID,
		LocationID:  locationID,
		Type:        model.MovementReceipt,
		Quantity:    decimal.RequireFromString(qty),
		UnitID:      env.unit,
	})
}
