package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrUserNotFound is returned when a username has no stored credentials.
var ErrUserNotFound = errors.New("repository: user not found")

// UserRepository reads and writes the user credential table.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a user repository on the shared pool.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// PasswordHash implements auth.CredentialSource.
func (r *UserRepository) PasswordHash(ctx context.Context, username string) (string, error) {
	var hash string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT password_hash FROM users WHERE name = $1`, username).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query user: %w", err)
	}
	return hash, nil
}

// CreateUser inserts a credential row.
func (r *UserRepository) CreateUser(ctx context.Context, username, passwordHash string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO users (name, password_hash) VALUES ($1, $2)`, username, passwordHash)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
