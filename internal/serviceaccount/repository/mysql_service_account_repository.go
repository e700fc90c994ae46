package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/authgate/internal/database"
	apperrors "github.com/allisson/authgate/internal/errors"
	saDomain "github.com/allisson/authgate/internal/serviceaccount/domain"
)

// MySQLServiceAccountRepository implements ServiceAccount persistence for
// MySQL. Uses BINARY(16) for UUID storage.
type MySQLServiceAccountRepository struct {
	db *sql.DB
}

// NewMySQLServiceAccountRepository creates a new MySQL ServiceAccount repository.
func NewMySQLServiceAccountRepository(db *sql.DB) *MySQLServiceAccountRepository {
	return &MySQLServiceAccountRepository{db: db}
}

// Create inserts a new ServiceAccount. Returns ErrServiceNameExists when the
// service name is already taken.
func (m *MySQLServiceAccountRepository) Create(ctx context.Context, account *saDomain.ServiceAccount) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal service account ID")
	}

	query := `INSERT INTO service_accounts (id, service_name, description, api_key_hash, active, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
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
func (m *MySQLServiceAccountRepository) Update(ctx context.Context, account *saDomain.ServiceAccount) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal service account ID")
	}

	query := `UPDATE service_accounts
			  SET description = ?,
				  api_key_hash = ?,
				  active = ?,
				  last_used_at = ?,
				  revoked_at = ?
			  WHERE id = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		account.Description,
		account.APIKeyHash,
		account.Active,
		account.LastUsedAt,
		account.RevokedAt,
		idBytes,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update service account")
	}

	return nil
}

// GetByID retrieves a ServiceAccount by ID.
func (m *MySQLServiceAccountRepository) GetByID(
	ctx context.Context,
	accountID uuid.UUID,
) (*saDomain.ServiceAccount, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := accountID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal service account ID")
	}

	query := `SELECT id, service_name, description, api_key_hash, active, created_at, last_used_at, revoked_at
			  FROM service_accounts WHERE id = ?`

	return m.scanAccount(querier.QueryRowContext(ctx, query, idBytes))
}

// GetByServiceName retrieves a ServiceAccount by its unique service name.
func (m *MySQLServiceAccountRepository) GetByServiceName(
	ctx context.Context,
	serviceName string,
) (*saDomain.ServiceAccount, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, service_name, description, api_key_hash, active, created_at, last_used_at, revoked_at
			  FROM service_accounts WHERE service_name = ?`

	return m.scanAccount(querier.QueryRowContext(ctx, query, serviceName))
}

// ListActive retrieves all active service accounts.
func (m *MySQLServiceAccountRepository) ListActive(ctx context.Context) ([]*saDomain.ServiceAccount, error) {
	querier := database.GetTx(ctx, m.db)

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

	return m.collectAccounts(rows)
}

// List retrieves service accounts ordered by creation time descending
// (newest first) with pagination.
func (m *MySQLServiceAccountRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*saDomain.ServiceAccount, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, service_name, description, api_key_hash, active, created_at, last_used_at, revoked_at
			  FROM service_accounts
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list service accounts")
	}
	defer func() {
		_ = rows.Close()
	}()

	return m.collectAccounts(rows)
}

// UpdateLastUsed records when the account last authenticated successfully.
func (m *MySQLServiceAccountRepository) UpdateLastUsed(
	ctx context.Context,
	accountID uuid.UUID,
	usedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := accountID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal service account ID")
	}

	query := `UPDATE service_accounts SET last_used_at = ? WHERE id = ?`

	if _, err := querier.ExecContext(ctx, query, usedAt, idBytes); err != nil {
		return apperrors.Wrap(err, "failed to update service account last used")
	}
	return nil
}

func (m *MySQLServiceAccountRepository) scanAccount(row *sql.Row) (*saDomain.ServiceAccount, error) {
	var (
		account saDomain.ServiceAccount
		idBytes []byte
	)

	err := row.Scan(
		&idBytes,
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

	id, err := uuid.FromBytes(idBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse service account ID")
	}
	account.ID = id

	return &account, nil
}

func (m *MySQLServiceAccountRepository) collectAccounts(rows *sql.Rows) ([]*saDomain.ServiceAccount, error) {
	// Initialize empty slice to avoid returning nil for empty results
	accounts := make([]*saDomain.ServiceAccount, 0)
	for rows.Next() {
		var (
			account saDomain.ServiceAccount
			idBytes []byte
		)

		err := rows.Scan(
			&idBytes,
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

		id, err := uuid.FromBytes(idBytes)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to parse service account ID")
		}
		account.ID = id

		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate service accounts")
	}

	return accounts, nil
}
