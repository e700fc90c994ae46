// Package usecase defines business logic interfaces for service account management.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	saDomain "github.com/allisson/authgate/internal/serviceaccount/domain"
)

// ServiceAccountRepository defines persistence operations for service accounts.
// Implementations must support transaction-aware operations via context propagation.
type ServiceAccountRepository interface {
	// Create stores a new service account. Returns ErrServiceNameExists if
	// the service name is taken.
	Create(ctx context.Context, account *saDomain.ServiceAccount) error

	// Update modifies an existing service account.
	Update(ctx context.Context, account *saDomain.ServiceAccount) error

	// GetByID retrieves a service account by ID. Returns
	// ErrServiceAccountNotFound if not found.
	GetByID(ctx context.Context, accountID uuid.UUID) (*saDomain.ServiceAccount, error)

	// GetByServiceName retrieves a service account by its unique service
	// name. Returns ErrServiceAccountNotFound if not found.
	GetByServiceName(ctx context.Context, serviceName string) (*saDomain.ServiceAccount, error)

	// ListActive retrieves all active service accounts.
	ListActive(ctx context.Context) ([]*saDomain.ServiceAccount, error)

	// List retrieves service accounts with pagination, newest first.
	List(ctx context.Context, offset, limit int) ([]*saDomain.ServiceAccount, error)

	// UpdateLastUsed stamps when the account last authenticated.
	UpdateLastUsed(ctx context.Context, accountID uuid.UUID, usedAt time.Time) error
}

// APIKeyUseCase manages the service account API key lifecycle: generation,
// validation, revocation, and rotation.
type APIKeyUseCase interface {
	// Generate creates a new service account with a fresh API key. The
	// plaintext key appears only in the returned output; the stored record
	// keeps the salted digest.
	//
	// Returns ErrServiceNameExists if the service name is already taken.
	Generate(
		ctx context.Context,
		input *saDomain.GenerateAPIKeyInput,
	) (*saDomain.GenerateAPIKeyOutput, error)

	// Validate resolves a presented API key to its active service account.
	// A process-local cache keeps the hot path to a single digest
	// comparison; on a miss every active account's digest is tried, since
	// salted hashes cannot be looked up directly.
	//
	// Returns ErrInvalidAPIKey when no active account matches.
	Validate(ctx context.Context, plainAPIKey string) (*saDomain.ServiceAccount, error)

	// Revoke deactivates the account so its key can no longer
	// authenticate. The account record is kept for audit purposes.
	Revoke(ctx context.Context, accountID uuid.UUID) error

	// Rotate replaces the account's API key with a fresh one and
	// reactivates the account. The old key stops working immediately.
	Rotate(ctx context.Context, accountID uuid.UUID) (*saDomain.GenerateAPIKeyOutput, error)

	// Get retrieves a service account by ID.
	Get(ctx context.Context, accountID uuid.UUID) (*saDomain.ServiceAccount, error)

	// GetByServiceName retrieves a service account by service name.
	GetByServiceName(ctx context.Context, serviceName string) (*saDomain.ServiceAccount, error)

	// List retrieves service accounts with pagination, newest first.
	List(ctx context.Context, offset, limit int) ([]*saDomain.ServiceAccount, error)
}
