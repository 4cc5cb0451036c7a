package infra

import (
	"fmt"

	"github.com/sushitlalpan/sushi-be/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate,
// then applies the idempotent SQL patches GORM cannot express.
//
// TranslateError is required: duplicate-key violations on the
// (branch_id, closure_date, closure_number) unique index must surface as
// gorm.ErrDuplicatedKey so the repository layer can map them to a conflict.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests
// against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() defaults need pgcrypto on PostgreSQL < 13.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Branch{},
		&model.User{},
		&model.Closure{},
		&model.Expense{},
		&model.Payroll{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate may skip on
// existing databases. Each statement is guarded so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Review fields were added after initial deployment; AutoMigrate
		// only adds them to tables it created itself.
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'closures') THEN
		    ALTER TABLE closures ADD COLUMN IF NOT EXISTS review_state VARCHAR(20) NOT NULL DEFAULT 'pending';
		    ALTER TABLE closures ADD COLUMN IF NOT EXISTS review_observations TEXT;
		  END IF;
		END $$`,
		// Partial index backing the pending-review reminder query.
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'closures')
		    AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_closures_pending_review') THEN
		    CREATE INDEX idx_closures_pending_review
		        ON closures (created_at)
		        WHERE review_state = 'pending';
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
