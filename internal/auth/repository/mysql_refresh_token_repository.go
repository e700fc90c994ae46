package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	"github.com/allisson/authgate/internal/database"
	apperrors "github.com/allisson/authgate/internal/errors"
)

// MySQLRefreshTokenRepository implements RefreshToken persistence for MySQL.
type MySQLRefreshTokenRepository struct {
	db *sql.DB
}

// NewMySQLRefreshTokenRepository creates a new MySQL RefreshToken repository.
func NewMySQLRefreshTokenRepository(db *sql.DB) *MySQLRefreshTokenRepository {
	return &MySQLRefreshTokenRepository{db: db}
}

// Create inserts a new RefreshToken.
func (m *MySQLRefreshTokenRepository) Create(ctx context.Context, token *authDomain.RefreshToken) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal refresh token ID")
	}

	query := `INSERT INTO refresh_tokens (id, principal_id, token, expires_at, revoked, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
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
func (m *MySQLRefreshTokenRepository) GetByToken(
	ctx context.Context,
	tokenString string,
) (*authDomain.RefreshToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, principal_id, token, expires_at, revoked, created_at
			  FROM refresh_tokens WHERE token = ?`

	var (
		token   authDomain.RefreshToken
		idBytes []byte
	)

	err := querier.QueryRowContext(ctx, query, tokenString).Scan(
		&idBytes,
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

	id, err := uuid.FromBytes(idBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse refresh token ID")
	}
	token.ID = id

	return &token, nil
}

// Revoke flips the token to its terminal revoked state. Returns
// ErrInvalidRefreshToken when no record matches the token string.
func (m *MySQLRefreshTokenRepository) Revoke(ctx context.Context, tokenString string) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE refresh_tokens SET revoked = true WHERE token = ?`

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
// principal.
func (m *MySQLRefreshTokenRepository) RevokeAllForPrincipal(ctx context.Context, principalID string) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE refresh_tokens SET revoked = true WHERE principal_id = ? AND revoked = false`

	if _, err := querier.ExecContext(ctx, query, principalID); err != nil {
		return apperrors.Wrap(err, "failed to revoke refresh tokens for principal")
	}
	return nil
}

// DeleteExpired removes tokens whose expiry passed before the cutoff.
func (m *MySQLRefreshTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM refresh_tokens WHERE expires_at < ?`

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
