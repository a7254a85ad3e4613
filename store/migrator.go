package store

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
)

// Migration files live in store/migration/{driver}/:
// - LATEST.sql: full schema, applied once on a fresh database
// - SEED.sql:   demo catalog, applied when the product table is empty
//
// There is no incremental migration history; the schema is small enough to
// be recreated from LATEST.sql on every fresh installation.

//go:embed migration
var migrationFS embed.FS

const (
	latestSchemaFileName = "LATEST.sql"
	seedFileName         = "SEED.sql"
)

// Migrate initializes the database schema and, on non-prod modes, seeds the
// demo catalog.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check database initialization")
	}

	if !initialized {
		if err := s.applyMigrationFile(ctx, latestSchemaFileName); err != nil {
			return errors.Wrap(err, "failed to apply latest schema")
		}
		slog.Info("database schema initialized", slog.String("driver", s.profile.Driver))
	}

	if s.profile.IsDev() {
		seeded, err := s.hasProducts(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to check product seed state")
		}
		if !seeded {
			if err := s.applyMigrationFile(ctx, seedFileName); err != nil {
				return errors.Wrap(err, "failed to seed demo catalog")
			}
			slog.Info("demo catalog seeded")
		}
	}

	return nil
}

func (s *Store) applyMigrationFile(ctx context.Context, name string) error {
	path := fmt.Sprintf("migration/%s/%s", s.profile.Driver, name)
	buf, err := migrationFS.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read migration file %s", path)
	}
	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrapf(err, "failed to execute migration file %s", path)
	}
	return nil
}

func (s *Store) hasProducts(ctx context.Context) (bool, error) {
	var count int
	if err := s.driver.GetDB().QueryRowContext(ctx, "SELECT COUNT(*) FROM product").Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
