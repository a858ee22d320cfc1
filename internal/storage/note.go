package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Note is a user-owned note with optional category and tag set.
type Note struct {
	ID         int64     `db:"id"`
	Title      string    `db:"title"`
	Content    string    `db:"content"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
	Pinned     bool      `db:"is_pinned"`
	Archived   bool      `db:"is_archived"`
	UserID     int64     `db:"user_id"`
	CategoryID *int64    `db:"category_id"`
	Tags       []string  `db:"-"`
}

// NoteParams holds input for creating a note.
type NoteParams struct {
	Title      string
	Content    string
	UserID     int64
	CategoryID *int64
	Tags       []string
}

// NotePatch is a partial update; nil fields are left unchanged.
type NotePatch struct {
	Title   *string
	Content *string
}

const noteColumns = `id, title, content, created_at, updated_at,
	is_pinned, is_archived, user_id, category_id`

// CreateNote inserts the note and its tag associations in one transaction.
// Tag names are found-or-created under the UNIQUE constraint: on conflict
// the existing id is re-read instead of failing, so concurrent creators of
// the same tag both succeed.
func (s *Store) CreateNote(ctx context.Context, p NoteParams) (*Note, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" || strings.TrimSpace(p.Content) == "" {
		return nil, fmt.Errorf("%w: note title and content are required", ErrValidation)
	}
	if p.CategoryID != nil {
		if _, err := s.GetCategory(ctx, *p.CategoryID); err != nil {
			return nil, err
		}
	}

	var noteID int64
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO notes (title, content, user_id, category_id)
			VALUES (?, ?, ?, ?)
		`, p.Title, p.Content, p.UserID, p.CategoryID)
		if err != nil {
			return fmt.Errorf("%w: insert note: %s", ErrStorage, err)
		}
		noteID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("%w: insert note: %s", ErrStorage, err)
		}

		for _, name := range normalizeTags(p.Tags) {
			tagID, err := ensureTag(ctx, tx, name)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO note_tags (note_id, tag_id) VALUES (?, ?)
			`, noteID, tagID); err != nil {
				return fmt.Errorf("%w: attach tag %q: %s", ErrStorage, name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetNote(ctx, noteID, p.UserID)
}

// GetNote retrieves a note with its tags. The user scope is part of the
// lookup: another user's note is ErrNotFound, not a permission error.
func (s *Store) GetNote(ctx context.Context, id, userID int64) (*Note, error) {
	var n Note
	err := s.db.GetContext(ctx, &n,
		`SELECT `+noteColumns+` FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get note: %s", ErrStorage, err)
	}

	if err := s.loadTags(ctx, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNote applies a partial update and refreshes updated_at.
func (s *Store) UpdateNote(ctx context.Context, id, userID int64, patch NotePatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fmt.Errorf("%w: note title cannot be empty", ErrValidation)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE notes
		SET title = COALESCE(?, title),
		    content = COALESCE(?, content),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`, patch.Title, patch.Content, id, userID)
	if err != nil {
		return fmt.Errorf("%w: update note: %s", ErrStorage, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteNote removes a note; its note_tags rows cascade.
func (s *Store) DeleteNote(ctx context.Context, id, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("%w: delete note: %s", ErrStorage, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetNotePinned toggles the pinned flag. Setting an already-set flag is a
// no-op success and leaves updated_at alone.
func (s *Store) SetNotePinned(ctx context.Context, id, userID int64, pinned bool) error {
	return s.setNoteFlag(ctx, "is_pinned", id, userID, pinned)
}

// SetNoteArchived toggles the archived flag, idempotently.
func (s *Store) SetNoteArchived(ctx context.Context, id, userID int64, archived bool) error {
	return s.setNoteFlag(ctx, "is_archived", id, userID, archived)
}

func (s *Store) setNoteFlag(ctx context.Context, column string, id, userID int64, value bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notes SET `+column+` = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ? AND `+column+` != ?
	`, value, id, userID, value)
	if err != nil {
		return fmt.Errorf("%w: set %s: %s", ErrStorage, column, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	// Nothing changed: either the flag was already set (fine) or the note
	// does not exist.
	if _, err := s.GetNote(ctx, id, userID); err != nil {
		return err
	}
	return nil
}

// AssignCategory sets the note's category; a nil categoryID explicitly
// clears the association.
func (s *Store) AssignCategory(ctx context.Context, id, userID int64, categoryID *int64) error {
	if categoryID != nil {
		if _, err := s.GetCategory(ctx, *categoryID); err != nil {
			return err
		}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE notes SET category_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`, categoryID, id, userID)
	if err != nil {
		return fmt.Errorf("%w: assign category: %s", ErrStorage, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddNoteTag attaches a tag to the note, creating the tag if needed.
func (s *Store) AddNoteTag(ctx context.Context, id, userID int64, tag string) error {
	tag = normalizeTag(tag)
	if tag == "" {
		return fmt.Errorf("%w: tag name is required", ErrValidation)
	}
	if _, err := s.GetNote(ctx, id, userID); err != nil {
		return err
	}

	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		tagID, err := ensureTag(ctx, tx, tag)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO note_tags (note_id, tag_id) VALUES (?, ?)
		`, id, tagID); err != nil {
			return fmt.Errorf("%w: attach tag: %s", ErrStorage, err)
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE notes SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("%w: touch note: %s", ErrStorage, err)
		}
		return nil
	})
}

// RemoveNoteTag detaches a tag from the note. The tag row itself is kept
// even when this was its last reference; tags are cheap and other sessions
// may be racing to reuse the name.
func (s *Store) RemoveNoteTag(ctx context.Context, id, userID int64, tag string) error {
	if _, err := s.GetNote(ctx, id, userID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM note_tags
		WHERE note_id = ? AND tag_id = (SELECT id FROM tags WHERE name = ?)
	`, id, normalizeTag(tag))
	if err != nil {
		return fmt.Errorf("%w: remove tag: %s", ErrStorage, err)
	}
	return nil
}

// ListNotes returns the user's active notes, newest-updated first.
// Archived notes are excluded unless includeArchived is set.
func (s *Store) ListNotes(ctx context.Context, userID int64, includeArchived bool) ([]*Note, error) {
	q := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = ?`
	if !includeArchived {
		q += ` AND is_archived = 0`
	}
	q += ` ORDER BY updated_at DESC, id DESC`
	return s.selectNotes(ctx, q, userID)
}

// ListNotesByCategory returns the user's notes in a category.
func (s *Store) ListNotesByCategory(ctx context.Context, userID, categoryID int64) ([]*Note, error) {
	return s.selectNotes(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE user_id = ? AND category_id = ?
		ORDER BY updated_at DESC, id DESC
	`, userID, categoryID)
}

// ListNotesByTag returns the user's notes carrying the tag.
func (s *Store) ListNotesByTag(ctx context.Context, userID int64, tag string) ([]*Note, error) {
	return s.selectNotes(ctx, `
		SELECT n.id, n.title, n.content, n.created_at, n.updated_at,
		       n.is_pinned, n.is_archived, n.user_id, n.category_id
		FROM notes n
		JOIN note_tags nt ON nt.note_id = n.id
		JOIN tags t ON t.id = nt.tag_id
		WHERE n.user_id = ? AND t.name = ?
		ORDER BY n.updated_at DESC, n.id DESC
	`, userID, normalizeTag(tag))
}

// ListPinnedNotes returns the user's pinned, non-archived notes.
func (s *Store) ListPinnedNotes(ctx context.Context, userID int64) ([]*Note, error) {
	return s.selectNotes(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE user_id = ? AND is_pinned = 1 AND is_archived = 0
		ORDER BY updated_at DESC, id DESC
	`, userID)
}

// ListArchivedNotes returns the user's archived notes.
func (s *Store) ListArchivedNotes(ctx context.Context, userID int64) ([]*Note, error) {
	return s.selectNotes(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE user_id = ? AND is_archived = 1
		ORDER BY updated_at DESC, id DESC
	`, userID)
}

// CountNoteTags returns the number of junction rows for a note (for testing).
func (s *Store) CountNoteTags(ctx context.Context, noteID int64) int {
	var count int
	s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM note_tags WHERE note_id = ?`, noteID)
	return count
}

// TagExists reports whether a tag row with the given name is present.
func (s *Store) TagExists(ctx context.Context, name string) bool {
	var count int
	s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM tags WHERE name = ?`, normalizeTag(name))
	return count > 0
}

func (s *Store) selectNotes(ctx context.Context, query string, args ...any) ([]*Note, error) {
	var notes []*Note
	if err := s.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, fmt.Errorf("%w: list notes: %s", ErrStorage, err)
	}
	return notes, nil
}

func (s *Store) loadTags(ctx context.Context, n *Note) error {
	err := s.db.SelectContext(ctx, &n.Tags, `
		SELECT t.name FROM tags t
		JOIN note_tags nt ON nt.tag_id = t.id
		WHERE nt.note_id = ?
		ORDER BY t.name
	`, n.ID)
	if err != nil {
		return fmt.Errorf("%w: load tags: %s", ErrStorage, err)
	}
	return nil
}

// ensureTag finds or creates a tag by name inside tx. INSERT OR IGNORE
// plus re-read keeps it race-safe under the UNIQUE constraint.
func ensureTag(ctx context.Context, tx *sqlx.Tx, name string) (int64, error) {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tags (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
		return 0, fmt.Errorf("%w: ensure tag %q: %s", ErrStorage, name, err)
	}

	var id int64
	if err := tx.GetContext(ctx, &id,
		`SELECT id FROM tags WHERE name = ?`, name); err != nil {
		return 0, fmt.Errorf("%w: read tag %q: %s", ErrStorage, name, err)
	}
	return id, nil
}

func normalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// normalizeTags lower-cases, trims and de-duplicates while keeping order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		t = normalizeTag(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
