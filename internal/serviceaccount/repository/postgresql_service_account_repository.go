// Package repository implements data persistence for service accounts.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16).
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
	saDomain "github.com/allisson/authgate/internal/serviceaccount/domain"
)

// PostgreSQLServiceAccountRepository implements ServiceAccount persistence
// for PostgreSQL.
type PostgreSQLServiceAccountRepository struct {
	db *sql.DB
}

// NewPostgreSQLServiceAccountRepository creates a new PostgreSQL ServiceAccount repository.
func NewPostgreSQLServiceAccountRepository(db *sql.DB) *PostgreSQLServiceAccountRepository {
	return &PostgreSQLServiceAccountRepository{db: db}
}

// Create inserts a new ServiceAccount. Returns ErrServiceNameExists when the
// service name is already taken.
func (p *PostgreSQLServiceAccountRepository) Create(ctx context.Context, account *saDomain.ServiceAccount) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO service_accounts (id, service_name, description, api_key_hash, active, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		account.ID,
		account.ServiceName,
		account.Description,
		account.APIKeyHash,
		account.Active,
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return saDomain.ErrServiceNameExists
		}
		return apperrors.Wrap(err, "failed to create service account")
	}
	return nil
}

// Update modifies an existing ServiceAccount.
func (p *PostgreSQLServiceAccountRepository) Update(ctx context.Context, account *saDomain.ServiceAccount) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE service_accounts
			  SET description = $1,
				  api_key_hash = $2,
				  active = $3,
				  last_used_at = $4,
				  revoked_at = $5
			  WHERE id = $6`

	_, err := querier.ExecContext(
		ctx,
		query,
		account.Description,
		account.APIKeyHash,
		account.Active,
		account.LastUsedAt,
		account.RevokedAt,
		account.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update service account")
	}

	return nil
}

// GetByID retrieves a ServiceAccount by ID.
func (p *PostgreSQLServiceAccountRepository) GetByID(
	ctx context.Context,
	accountID uuid.UUID,
) (*saDomain.ServiceAccount, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, service_name, description, api_key_hash, active, created_at, last_used_at, revoked_at
			  FROM service_accounts WHERE id = $1`

	return p.scanAccount(querier.QueryRowContext(ctx, query, accountID))
}

// GetByServiceName retrieves a ServiceAccount by its unique service name.
func (p *PostgreSQLServiceAccountRepository) GetByServiceName(
	ctx context.Context,
	serviceName string,
) (*saDomain.ServiceAccount, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, service_name, description, api_key_hash, active, created_at, last_used_at, revoked_at
			  FROM service_accounts WHERE service_name = $1`

	return p.scanAccount(querier.QueryRowContext(ctx, query, serviceName))
}

// ListActive retrieves all active service accounts. Used by API key
// validation, which must verify the presented key against each candidate
// digest because the hashes are salted.
func (p *PostgreSQLServiceAccountRepository) ListActive(ctx context.Context) ([]*saDomain.ServiceAccount, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, service_name, description, api_key_hash, active, created_at, last_used_at, revoked_at
			  FROM service_accounts
			  WHERE active = true
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list active service accounts")
	}
	defer func() {
		_ = rows.Close()
	}()

	return p.collectAccounts(rows)
}

// List retrieves service accounts ordered by creation time descending
// (newest first) with pagination.
func (p *PostgreSQLServiceAccountRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*saDomain.ServiceAccount, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, service_name, description, api_key_hash, active, created_at, last_used_at, revoked_at
			  FROM service_accounts
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list service accounts")
	}
	defer func() {
		_ = rows.Close()
	}()

	return p.collectAccounts(rows)
}

// UpdateLastUsed records when the account last authenticated successfully.
func (p *PostgreSQLServiceAccountRepository) UpdateLastUsed(
	ctx context.Context,
	accountID uuid.UUID,
	usedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE service_accounts SET last_used_at = $1 WHERE id = $2`

	if _, err := querier.ExecContext(ctx, query, usedAt, accountID); err != nil {
		return apperrors.Wrap(err, "failed to update service account last used")
	}
	return nil
}

func (p *PostgreSQLServiceAccountRepository) scanAccount(row *sql.Row) (*saDomain.ServiceAccount, error) {
	var account saDomain.ServiceAccount

	err := row.Scan(
		&account.ID,
		&account.ServiceName,
		&account.Description,
		&account.APIKeyHash,
		&account.Active,
		&account.CreatedAt,
		&account.LastUsedAt,
		&account.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, saDomain.ErrServiceAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get service account")
	}

	return &account, nil
}

func (p *PostgreSQLServiceAccountRepository) collectAccounts(rows *sql.Rows) ([]*saDomain.ServiceAccount, error) {
	// Initialize empty slice to avoid returning nil for empty results
	accounts := make([]*saDomain.ServiceAccount, 0)
	for rows.Next() {
		var account saDomain.ServiceAccount

		err := rows.Scan(
			&account.ID,
			&account.ServiceName,
			&account.Description,
			&account.APIKeyHash,
			&account.Active,
			&account.CreatedAt,
			&account.LastUsedAt,
			&account.RevokedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan service account")
		}

		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate service accounts")
	}

	return accounts, nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry")
}
