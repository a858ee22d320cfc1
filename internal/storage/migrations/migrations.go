// Package migrations holds the ordered schema migrations applied on top of
// the base schema. Each one must be idempotent: the ALTER TABLE variants
// check for an existing column first because re-running them is legal.
package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

// All returns every migration in application order.
func All() []*goose.Migration {
	return []*goose.Migration{
		goose.NewGoMigration(1, &goose.GoFunc{RunTx: upNotesUpdatedIndex}, nil),
		goose.NewGoMigration(2, &goose.GoFunc{RunTx: upHistoryResponse}, nil),
	}
}

// Listings order notes by updated_at; the base schema only indexed the
// foreign keys.
func upNotesUpdatedIndex(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at)
	`)
	return err
}

// The response a command produced used to live only in the context blob.
// Promote it to its own column; it is still written once at insert time,
// history rows stay immutable.
func upHistoryResponse(ctx context.Context, tx *sql.Tx) error {
	var count int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM pragma_table_info('command_history') WHERE name='response'
	`).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = tx.ExecContext(ctx, `ALTER TABLE command_history ADD COLUMN response TEXT`)
	return err
}
