package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User owns notes and command history. Deleting a user cascades to both.
type User struct {
	ID               int64      `db:"id"`
	Username         string     `db:"username"`
	Email            string     `db:"email"`
	PasswordHash     string     `db:"password_hash"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
	LastLogin        *time.Time `db:"last_login"`
	RegistrationDate time.Time  `db:"registration_date"`
}

// CreateUser registers a new user. Username and email are globally unique;
// a conflict surfaces as ErrValidation rather than a raw driver error.
func (s *Store) CreateUser(ctx context.Context, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %s", ErrStorage, err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, string(hash),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrValidation)
		}
		return nil, fmt.Errorf("%w: create user: %s", ErrStorage, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: create user: %s", ErrStorage, err)
	}
	return s.GetUser(ctx, id)
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `
		SELECT id, username, email, password_hash, created_at, updated_at,
		       last_login, registration_date
		FROM users WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get user: %s", ErrStorage, err)
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `
		SELECT id, username, email, password_hash, created_at, updated_at,
		       last_login, registration_date
		FROM users WHERE username = ?
	`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get user: %s", ErrStorage, err)
	}
	return &u, nil
}

// TouchLastLogin stamps the user's last_login.
func (s *Store) TouchLastLogin(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET last_login = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("%w: touch last login: %s", ErrStorage, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user. Their notes, note_tags rows and command
// history go with them via the foreign-key cascades.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete user: %s", ErrStorage, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureLocalUser finds or creates the single operator account the CLI
// runs under. The generated password is random; local sessions never log
// in with it.
func (s *Store) EnsureLocalUser(ctx context.Context, username, email string) (*User, error) {
	u, err := s.GetUserByUsername(ctx, username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("%w: generate password: %s", ErrStorage, err)
	}

	u, err = s.CreateUser(ctx, username, email, hex.EncodeToString(buf))
	if err != nil && errors.Is(err, ErrValidation) {
		// Lost a race with a concurrent session; re-read the winner.
		return s.GetUserByUsername(ctx, username)
	}
	return u, err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
