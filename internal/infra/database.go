package infra

import (
	"fmt"
	"time"

	"github.com/Contabilizar/estoque/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, reconciles tables
// created by the legacy deployment, then runs AutoMigrate for every model.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
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
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the legacy patches and AutoMigrate. Idempotent; also
// used by integration tests against a fresh container.
func RunMigrations(db *gorm.DB) error {
	if err := applyPreMigrationPatches(db); err != nil {
		return fmt.Errorf("pre-migration patches: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Funcionario{},
		&model.Item{},
		&model.Movimentacao{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return nil
}

// applyPreMigrationPatches brings a schema created by the legacy deployment to
// the shape AutoMigrate expects before it runs.
//
// Background:
//   - funcionarios stored the PIN in plaintext (pin VARCHAR(10)). The column is
//     replaced by pin_hash, filled with pgcrypto bcrypt hashes ($2a$, readable
//     by x/crypto/bcrypt), and dropped.
//   - movimentacoes had no stock snapshots. AutoMigrate cannot add a NOT NULL
//     column to a populated table, so they are added here with DEFAULT 0.
//   - Nullable legacy columns mapped to non-pointer fields are backfilled so
//     old rows still scan.
//
// Each statement is guarded by an existence check so re-running on an
// already-patched schema, or on an empty database, is a no-op.
func applyPreMigrationPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"hash legacy plaintext funcionarios.pin into pin_hash", `
DO $$ BEGIN
  IF EXISTS (SELECT 1 FROM information_schema.columns
             WHERE table_name = 'funcionarios' AND column_name = 'pin') THEN
    CREATE EXTENSION IF NOT EXISTS pgcrypto;
    ALTER TABLE funcionarios ADD COLUMN IF NOT EXISTS pin_hash TEXT;
    UPDATE funcionarios SET pin_hash = crypt(pin, gen_salt('bf', 10)) WHERE pin_hash IS NULL;
    ALTER TABLE funcionarios ALTER COLUMN pin_hash SET NOT NULL;
    ALTER TABLE funcionarios DROP COLUMN pin;
    UPDATE funcionarios SET ativo = TRUE WHERE ativo IS NULL;
  END IF;
END $$`},
		{"add stock snapshots to legacy movimentacoes", `
DO $$ BEGIN
  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'movimentacoes') THEN
    ALTER TABLE movimentacoes ADD COLUMN IF NOT EXISTS estoque_anterior INTEGER NOT NULL DEFAULT 0;
    ALTER TABLE movimentacoes ADD COLUMN IF NOT EXISTS estoque_novo     INTEGER NOT NULL DEFAULT 0;
    UPDATE movimentacoes SET data_hora = CURRENT_TIMESTAMP WHERE data_hora IS NULL;
    UPDATE movimentacoes SET ip = '' WHERE ip IS NULL;
    UPDATE movimentacoes SET user_agent = '' WHERE user_agent IS NULL;
  END IF;
END $$`},
		{"backfill legacy itens stock counters", `
DO $$ BEGIN
  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'itens') THEN
    UPDATE itens SET estoque_atual = 0 WHERE estoque_atual IS NULL;
    UPDATE itens SET estoque_minimo = 0 WHERE estoque_minimo IS NULL;
    UPDATE itens SET ativo = TRUE WHERE ativo IS NULL;
    ALTER TABLE itens ADD COLUMN IF NOT EXISTS criado_em TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP;
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("pre-patch %q: %w", p.descr, err)
		}
	}
	return nil
}
