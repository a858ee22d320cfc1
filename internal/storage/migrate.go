package storage

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/novahq/nova/internal/storage/migrations"
)

// Migrate applies pending schema migrations. Safe to run repeatedly; goose
// tracks applied versions in its own table.
func (s *Store) Migrate(ctx context.Context) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db.DB, nil,
		goose.WithGoMigrations(migrations.All()...),
		goose.WithDisableGlobalRegistry(true),
	)
	if err != nil {
		return fmt.Errorf("%w: migration setup: %s", ErrSchema, err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("%w: apply migrations: %s", ErrSchema, err)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int64, error) {
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db.DB, nil,
		goose.WithGoMigrations(migrations.All()...),
		goose.WithDisableGlobalRegistry(true),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: migration setup: %s", ErrSchema, err)
	}
	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: read schema version: %s", ErrSchema, err)
	}
	return version, nil
}
