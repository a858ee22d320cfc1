package storage

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the recorded outcome of a dispatched command.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusError   Status = "error"
)

func (st Status) valid() bool {
	switch st {
	case StatusSuccess, StatusFailure, StatusError:
		return true
	}
	return false
}

// Document is a structured context payload stored as JSON. Nested values
// round-trip untouched; the column is never flattened.
type Document map[string]any

// Value implements driver.Valuer.
func (d Document) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (d *Document) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = nil
		return nil
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("cannot scan %T into Document", src)
	}
}

// HistoryEntry is one immutable command-history row.
type HistoryEntry struct {
	ID        int64     `db:"history_id"`
	UserID    int64     `db:"user_id"`
	Command   string    `db:"command"`
	Timestamp time.Time `db:"timestamp"`
	Status    Status    `db:"execution_status"`
	Response  *string   `db:"response"`
	Context   Document  `db:"context"`
}

// CommandEvent is the input for recording one command attempt.
type CommandEvent struct {
	UserID   int64
	Command  string
	Status   Status
	Response string
	Context  Document
}

// HistoryFilter narrows a history listing. Zero values mean "no filter";
// Limit defaults to 50.
type HistoryFilter struct {
	UserID        int64
	Statuses      []Status
	CommandPrefix string
	Limit         int
	Offset        int
}

const historyColumns = `history_id, user_id, command, timestamp,
	execution_status, response, context`

// RecordCommand appends exactly one history row and returns its id. There
// is deliberately no update or single-row delete: rows are immutable once
// written and disappear only with their user.
func (s *Store) RecordCommand(ctx context.Context, e CommandEvent) (int64, error) {
	e.Command = strings.TrimSpace(e.Command)
	if e.Command == "" {
		return 0, fmt.Errorf("%w: command text is required", ErrValidation)
	}
	if !e.Status.valid() {
		return 0, fmt.Errorf("%w: unknown execution status %q", ErrValidation, e.Status)
	}

	var response any
	if e.Response != "" {
		response = e.Response
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO command_history (user_id, command, execution_status, response, context)
		VALUES (?, ?, ?, ?, ?)
	`, e.UserID, e.Command, e.Status, response, e.Context)
	if err != nil {
		return 0, fmt.Errorf("%w: record command: %s", ErrStorage, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: record command: %s", ErrStorage, err)
	}
	return id, nil
}

// ListHistory returns matching rows, newest first.
func (s *Store) ListHistory(ctx context.Context, f HistoryFilter) ([]*HistoryEntry, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}

	q := `SELECT ` + historyColumns + ` FROM command_history WHERE user_id = ?`
	args := []any{f.UserID}

	if len(f.Statuses) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.Statuses)), ",")
		q += ` AND execution_status IN (` + placeholders + `)`
		for _, st := range f.Statuses {
			args = append(args, st)
		}
	}
	if f.CommandPrefix != "" {
		q += ` AND command LIKE ? ESCAPE '\'`
		args = append(args, escapeLike(f.CommandPrefix)+"%")
	}

	q += ` ORDER BY timestamp DESC, history_id DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	var entries []*HistoryEntry
	if err := s.db.SelectContext(ctx, &entries, q, args...); err != nil {
		return nil, fmt.Errorf("%w: list history: %s", ErrStorage, err)
	}
	return entries, nil
}

// SearchHistory matches command and response text by case-insensitive
// substring, newest first.
func (s *Store) SearchHistory(ctx context.Context, userID int64, term string, limit int) ([]*HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + escapeLike(term) + "%"

	var entries []*HistoryEntry
	err := s.db.SelectContext(ctx, &entries, `
		SELECT `+historyColumns+` FROM command_history
		WHERE user_id = ?
		  AND (command LIKE ? ESCAPE '\' OR response LIKE ? ESCAPE '\')
		ORDER BY timestamp DESC, history_id DESC
		LIMIT ?
	`, userID, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: search history: %s", ErrStorage, err)
	}
	return entries, nil
}

// ClearHistory deletes the user's history rows and reports how many went.
// Irreversible; confirmation is the caller's job.
func (s *Store) ClearHistory(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM command_history WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: clear history: %s", ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: clear history: %s", ErrStorage, err)
	}
	return n, nil
}

// CountHistory returns the user's total history rows (for testing and stats).
func (s *Store) CountHistory(ctx context.Context, userID int64) int {
	var count int
	s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM command_history WHERE user_id = ?`, userID)
	return count
}

// escapeLike neutralizes LIKE wildcards in user-supplied terms.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
