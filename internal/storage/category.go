package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Category groups notes. Deleting one clears the reference on its notes
// instead of deleting them.
type Category struct {
	ID          int64   `db:"id"`
	Name        string  `db:"name"`
	Description *string `db:"description"`
}

// CreateCategory adds a category.
func (s *Store) CreateCategory(ctx context.Context, name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	var desc *string
	if description != "" {
		desc = &description
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?)`, name, desc)
	if err != nil {
		return nil, fmt.Errorf("%w: create category: %s", ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: create category: %s", ErrStorage, err)
	}
	return &Category{ID: id, Name: name, Description: desc}, nil
}

// GetCategory retrieves a category by id.
func (s *Store) GetCategory(ctx context.Context, id int64) (*Category, error) {
	var c Category
	err := s.db.GetContext(ctx, &c,
		`SELECT id, name, description FROM categories WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get category: %s", ErrStorage, err)
	}
	return &c, nil
}

// ListCategories returns all categories by name.
func (s *Store) ListCategories(ctx context.Context) ([]*Category, error) {
	var cats []*Category
	err := s.db.SelectContext(ctx, &cats,
		`SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: list categories: %s", ErrStorage, err)
	}
	return cats, nil
}

// DeleteCategory removes a category. Referencing notes keep their content;
// their category_id is set to NULL by the schema's ON DELETE SET NULL.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete category: %s", ErrStorage, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
