package infra

import (
	"batchtrace/internal/config"
	"batchtrace/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectDatabase opens the Postgres pool, runs migrations and applies the
// schema patches AutoMigrate cannot express.
func ConnectDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.Env == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&model.Unit{},
		&model.Product{},
		&model.Supplier{},
		&model.Warehouse{},
		&model.StorageLocation{},
		&model.User{},
		&model.Batch{},
		&model.MovementEntry{},
		&model.Reservation{},
		&model.LineageLink{},
		&model.TraceReport{},
	); err != nil {
		return nil, err
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, err
	}

	log.Info().Msg("database connected and migrated")
	return db, nil
}

// applySchemaPatches adds indexes AutoMigrate does not cover. Every
// statement is idempotent so repeated startups are safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Availability checks sum active reservations per batch on the hot
		// path of every reservation create and increase.
		`CREATE INDEX IF NOT EXISTS idx_reservations_batch_active
			ON reservations (batch_id) WHERE status = 'active'`,
		// Ledger replay reads per batch in insertion order.
		`CREATE INDEX IF NOT EXISTS idx_movements_batch_seq
			ON movement_entries (batch_id, seq)`,
		// Expiry cron scans by best-before date.
		`CREATE INDEX IF NOT EXISTS idx_batches_best_before
			ON batches (best_before_date) WHERE best_before_date IS NOT NULL`,
	}
	for _, stmt := range patches {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
