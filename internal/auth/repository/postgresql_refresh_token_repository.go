// Package repository implements data persistence for refresh tokens.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16).
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	"github.com/allisson/authgate/internal/database"
	apperrors "github.com/allisson/authgate/internal/errors"
)

// PostgreSQLRefreshTokenRepository implements RefreshToken persistence for
// PostgreSQL.
type PostgreSQLRefreshTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLRefreshTokenRepository creates a new PostgreSQL RefreshToken repository.
func NewPostgreSQLRefreshTokenRepository(db *sql.DB) *PostgreSQLRefreshTokenRepository {
	return &PostgreSQLRefreshTokenRepository{db: db}
}

// Create inserts a new RefreshToken.
func (p *PostgreSQLRefreshTokenRepository) Create(ctx context.Context, token *authDomain.RefreshToken) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO refresh_tokens (id, principal_id, token, expires_at, revoked, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.PrincipalID,
		token.Token,
		token.ExpiresAt,
		token.Revoked,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create refresh token")
	}
	return nil
}

// GetByToken retrieves a RefreshToken by its token string. Returns
// ErrInvalidRefreshToken if no record matches.
func (p *PostgreSQLRefreshTokenRepository) GetByToken(
	ctx context.Context,
	tokenString string,
) (*authDomain.RefreshToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, principal_id, token, expires_at, revoked, created_at
			  FROM refresh_tokens WHERE token = $1`

	var token authDomain.RefreshToken

	err := querier.QueryRowContext(ctx, query, tokenString).Scan(
		&token.ID,
		&token.PrincipalID,
		&token.Token,
		&token.ExpiresAt,
		&token.Revoked,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrInvalidRefreshToken
		}
		return nil, apperrors.Wrap(err, "failed to get refresh token")
	}

	return &token, nil
}

// Revoke flips the token to its terminal revoked state. Returns
// ErrInvalidRefreshToken when no record matches the token string.
func (p *PostgreSQLRefreshTokenRepository) Revoke(ctx context.Context, tokenString string) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE refresh_tokens SET revoked = true WHERE token = $1`

	result, err := querier.ExecContext(ctx, query, tokenString)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke refresh token")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check revoked rows")
	}
	if rows == 0 {
		return authDomain.ErrInvalidRefreshToken
	}

	return nil
}

// RevokeAllForPrincipal revokes every non-revoked token owned by the
// principal. Run inside a transaction together with the insert of the
// replacement token to uphold the single-active-token invariant.
func (p *PostgreSQLRefreshTokenRepository) RevokeAllForPrincipal(ctx context.Context, principalID string) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE refresh_tokens SET revoked = true WHERE principal_id = $1 AND revoked = false`

	if _, err := querier.ExecContext(ctx, query, principalID); err != nil {
		return apperrors.Wrap(err, "failed to revoke refresh tokens for principal")
	}
	return nil
}

// DeleteExpired removes tokens whose expiry passed before the cutoff.
// Purging is housekeeping only; correctness never depends on it because
// expiry is checked at validation time.
func (p *PostgreSQLRefreshTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM refresh_tokens WHERE expires_at < $1`

	result, err := querier.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired refresh tokens")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted refresh tokens")
	}

	return rows, nil
}
