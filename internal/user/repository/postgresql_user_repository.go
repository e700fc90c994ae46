// Package repository provides data persistence implementations for user entities.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/authgate/internal/database"
	apperrors "github.com/allisson/authgate/internal/errors"
	"github.com/allisson/authgate/internal/user/domain"
)

// PostgreSQLUserRepository handles user persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{
		db: db,
	}
}

// Create inserts a new user. Returns ErrUsernameExists or ErrEmailExists
// when the respective unique constraint is violated.
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, username, email, password, first_name, last_name, role, enabled, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.Password,
		user.FirstName,
		user.LastName,
		user.Role,
		user.Enabled,
	)
	if err != nil {
		if uniqueErr := mapUniqueViolation(err); uniqueErr != nil {
			return uniqueErr
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID. Returns ErrUserNotFound if absent.
func (r *PostgreSQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, username, email, password, first_name, last_name, role, enabled, last_login_at, created_at, updated_at
			  FROM users WHERE id = $1`

	return scanUser(querier.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a user by username. Returns ErrUserNotFound if absent.
func (r *PostgreSQLUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, username, email, password, first_name, last_name, role, enabled, last_login_at, created_at, updated_at
			  FROM users WHERE username = $1`

	return scanUser(querier.QueryRowContext(ctx, query, username))
}

// UpdateLastLogin stamps the user's last login time.
func (r *PostgreSQLUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET last_login_at = $1, updated_at = NOW() WHERE id = $2`

	_, err := querier.ExecContext(ctx, query, at, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update last login")
	}
	return nil
}

// scanUser scans a single user row, mapping sql.ErrNoRows to ErrUserNotFound.
func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.Enabled,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	return &user, nil
}

// mapUniqueViolation maps a unique constraint violation to the matching
// domain error by inspecting the constraint name in the driver message.
// Returns nil for non-unique-violation errors.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	errMsg := strings.ToLower(err.Error())
	if !strings.Contains(errMsg, "duplicate key") &&
		!strings.Contains(errMsg, "unique constraint") &&
		!strings.Contains(errMsg, "duplicate entry") {
		return nil
	}
	if strings.Contains(errMsg, "email") {
		return domain.ErrEmailExists
	}
	return domain.ErrUsernameExists
}
