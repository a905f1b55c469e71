package service

import (
	"context"
	"encoding/json"
	"time"

	"batchtrace/internal/dto"
	"batchtrace/internal/model"
	"batchtrace/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Master-data lists change rarely and are read on every lookup form, so they
// are cached in Redis with a short TTL. Cache misses and Redis outages both
// fall through to the database.
const masterDataCacheTTL = 5 * time.Minute

type MasterDataService interface {
	ListProducts(ctx context.Context) ([]dto.ProductResponse, error)
	ListSuppliers(ctx context.Context) ([]dto.SupplierResponse, error)
	ListWarehouses(ctx context.Context) ([]dto.WarehouseResponse, error)
	ListUnits(ctx context.Context) ([]dto.UnitResponse, error)
}

type masterDataService struct {
	products   repository.ProductRepository
	suppliers  repository.SupplierRepository
	warehouses repository.WarehouseRepository
	units      repository.UnitRepository
	cache      *redis.Client
}

func NewMasterDataService(
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	warehouses repository.WarehouseRepository,
	units repository.UnitRepository,
	cache *redis.Client,
) MasterDataService {
	return &masterDataService{
		products:   products,
		suppliers:  suppliers,
		warehouses: warehouses,
		units:      units,
		cache:      cache,
	}
}

func cachedList[T any](ctx context.Context, cache *redis.Client, key string, load func() ([]T, error)) ([]T, error) {
	if cache != nil {
		if raw, err := cache.Get(ctx, key).Result(); err == nil {
			var out []T
			if err := json.Unmarshal([]byte(raw), &out); err == nil {
				return out, nil
			}
		}
	}

	out, err := load()
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := cache.Set(ctx, key, raw, masterDataCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("master data cache write failed")
			}
		}
	}
	return out, nil
}

func (s *masterDataService) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	return cachedList(ctx, s.cache, "masterdata:products", func() ([]dto.ProductResponse, error) {
		products, err := s.products.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.ProductResponse, 0, len(products))
		for i := range products {
			p := &products[i]
			resp := dto.ProductResponse{ID: p.ID.String(), Code: p.Code, Name: p.Name, Active: p.Active}
			if p.DefaultUnitID != nil {
				id := p.DefaultUnitID.String()
				resp.DefaultUnitID = &id
			}
			out = append(out, resp)
		}
		return out, nil
	})
}

func (s *masterDataService) ListSuppliers(ctx context.Context) ([]dto.SupplierResponse, error) {
	return cachedList(ctx, s.cache, "masterdata:suppliers", func() ([]dto.SupplierResponse, error) {
		suppliers, err := s.suppliers.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.SupplierResponse, 0, len(suppliers))
		for i := range suppliers {
			out = append(out, dto.SupplierResponse{
				ID:     suppliers[i].ID.String(),
				Name:   suppliers[i].Name,
				Email:  suppliers[i].Email,
				Active: suppliers[i].Active,
			})
		}
		return out, nil
	})
}

func (s *masterDataService) ListWarehouses(ctx context.Context) ([]dto.WarehouseResponse, error) {
	return cachedList(ctx, s.cache, "masterdata:warehouses", func() ([]dto.WarehouseResponse, error) {
		warehouses, err := s.warehouses.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.WarehouseResponse, 0, len(warehouses))
		for i := range warehouses {
			out = append(out, toWarehouseResponse(&warehouses[i]))
		}
		return out, nil
	})
}

func (s *masterDataService) ListUnits(ctx context.Context) ([]dto.UnitResponse, error) {
	return cachedList(ctx, s.cache, "masterdata:units", func() ([]dto.UnitResponse, error) {
		units, err := s.units.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.UnitResponse, 0, len(units))
		for i := range units {
			out = append(out, dto.UnitResponse{
				ID:   units[i].ID.String(),
				Code: units[i].Code,
				Name: units[i].Name,
			})
		}
		return out, nil
	})
}

func toWarehouseResponse(w *model.Warehouse) dto.WarehouseResponse {
	resp := dto.WarehouseResponse{
		ID:        w.ID.String(),
		Code:      w.Code,
		Name:      w.Name,
		Active:    w.Active,
		Locations: make([]dto.LocationResponse, 0, len(w.Locations)),
	}
	for i := range w.Locations {
		l := &w.Locations[i]
		resp.Locations = append(resp.Locations, dto.LocationResponse{
			ID:          l.ID.String(),
			WarehouseID: l.WarehouseID.String(),
			Code:        l.Code,
			Name:        l.Name,
			Active:      l.Active,
		})
	}
	return resp
}
