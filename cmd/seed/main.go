// Seeds master data and an initial admin user for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"batchtrace/internal/config"
	"batchtrace/internal/infra"
	"batchtrace/internal/model"
	"batchtrace/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	adminPassword := flag.String("admin-password", "admin1234", "password for the seeded admin user")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	db, err := infra.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	ctx := context.Background()
	seedUnits(ctx, db)
	seedProducts(ctx, db)
	seedSuppliers(ctx, db)
	seedWarehouses(ctx, db)
	seedAdmin(ctx, db, *adminPassword)
	log.Info().Msg("seed complete")
}

func seedUnits(ctx context.Context, db *gorm.DB) {
	units := repository.NewUnitRepository(db)
	for _, u := range []model.Unit{
		{Code: "kg", Name: "Kilogram"},
		{Code: "l", Name: "Litre"},
		{Code: "pc", Name: "Piece"},
	} {
		u := u
		if err := units.Create(ctx, &u); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Fatal().Err(err).Str("unit", u.Code).Msg("unit seed failed")
		}
	}
}

func seedProducts(ctx context.Context, db *gorm.DB) {
	products := repository.NewProductRepository(db)
	for _, p := range []model.Product{
		{Code: "WHEAT", Name: "Wheat, milling grade", Active: true},
		{Code: "RAPE", Name: "Rapeseed", Active: true},
		{Code: "FEED01", Name: "Compound feed 01", Active: true},
	} {
		p := p
		if err := products.Create(ctx, &p); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Fatal().Err(err).Str("product", p.Code).Msg("product seed failed")
		}
	}
}

func seedSuppliers(ctx context.Context, db *gorm.DB) {
	suppliers := repository.NewSupplierRepository(db)
	email := "orders@nordgrain.example"
	for _, s := range []model.Supplier{
		{Name: "Nordgrain GmbH", Email: &email, Active: true},
		{Name: "Agrarhandel Weser KG", Active: true},
	} {
		s := s
		if err := suppliers.Create(ctx, &s); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Fatal().Err(err).Str("supplier", s.Name).Msg("supplier seed failed")
		}
	}
}

func seedWarehouses(ctx context.Context, db *gorm.DB) {
	warehouses := repository.NewWarehouseRepository(db)
	for _, w := range []struct {
		warehouse model.Warehouse
		locations []model.StorageLocation
	}{
		{
			warehouse: model.Warehouse{Code: "MAIN", Name: "Main warehouse", Active: true},
			locations: []model.StorageLocation{
				{Code: "A-01", Name: "Silo A-01", Active: true},
				{Code: "A-02", Name: "Silo A-02", Active: true},
			},
		},
		{
			warehouse: model.Warehouse{Code: "EXT", Name: "External store", Active: true},
			locations: []model.StorageLocation{
				{Code: "E-01", Name: "Flat store E-01", Active: true},
			},
		},
	} {
		wh := w.warehouse
		if err := warehouses.Create(ctx, &wh); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			log.Fatal().Err(err).Str("warehouse", wh.Code).Msg("warehouse seed failed")
		}
		for _, l := range w.locations {
			l := l
			l.WarehouseID = wh.ID
			if err := warehouses.CreateLocation(ctx, &l); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
				log.Fatal().Err(err).Str("location", l.Code).Msg("location seed failed")
			}
		}
	}
}

func seedAdmin(ctx context.Context, db *gorm.DB, password string) {
	users := repository.NewUserRepository(db)
	if _, err := users.FindByUsername(ctx, "admin"); err == nil {
		log.Info().Msg("admin user already present")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("password hash failed")
	}
	admin := &model.User{
		Username:     "admin",
		Name:         "Administrator",
		PasswordHash: string(hash),
		Role:         "admin",
		Active:       true,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("admin seed failed")
	}
	log.Info().Msg("admin user created")
}
