// Package usecase implements business logic orchestration for service account management.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authService "github.com/allisson/authgate/internal/auth/service"
	"github.com/allisson/authgate/internal/database"
	"github.com/allisson/authgate/internal/serviceaccount/cache"
	saDomain "github.com/allisson/authgate/internal/serviceaccount/domain"
	appvalidation "github.com/allisson/authgate/internal/validation"
)

// apiKeyUseCase implements APIKeyUseCase.
type apiKeyUseCase struct {
	txManager     database.TxManager
	accountRepo   ServiceAccountRepository
	secretService authService.SecretService
	keyCache      *cache.APIKeyCache
}

// NewAPIKeyUseCase creates a new APIKeyUseCase with the provided dependencies.
func NewAPIKeyUseCase(
	txManager database.TxManager,
	accountRepo ServiceAccountRepository,
	secretService authService.SecretService,
	keyCache *cache.APIKeyCache,
) APIKeyUseCase {
	return &apiKeyUseCase{
		txManager:     txManager,
		accountRepo:   accountRepo,
		secretService: secretService,
		keyCache:      keyCache,
	}
}

// validateGenerateInput checks the Generate input fields.
func validateGenerateInput(input *saDomain.GenerateAPIKeyInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.ServiceName,
			validation.Required,
			validation.Length(3, 100),
			appvalidation.NotBlank,
			appvalidation.NoWhitespace,
		),
		validation.Field(&input.Description,
			validation.Length(0, 500),
		),
	)
	return appvalidation.WrapValidationError(err)
}

// Generate creates a new service account with a fresh API key.
//
// Security Note: The returned PlainAPIKey must be transmitted securely and
// never logged or stored by the caller. It is only shown once; afterwards
// only the salted digest exists.
func (a *apiKeyUseCase) Generate(
	ctx context.Context,
	input *saDomain.GenerateAPIKeyInput,
) (*saDomain.GenerateAPIKeyOutput, error) {
	if err := validateGenerateInput(input); err != nil {
		return nil, err
	}

	plainKey, hashedKey, err := a.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	account := &saDomain.ServiceAccount{
		ID:          uuid.Must(uuid.NewV7()),
		ServiceName: input.ServiceName,
		Description: input.Description,
		APIKeyHash:  hashedKey,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}

	if err := a.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return &saDomain.GenerateAPIKeyOutput{
		ID:          account.ID,
		ServiceName: account.ServiceName,
		PlainAPIKey: plainKey,
	}, nil
}

// Validate resolves a presented API key to its active service account.
//
// The digests are salted, so there is no way to look a key up directly;
// instead every active account's digest is compared until one verifies.
// The cache keeps repeat validations of the same key to a single map read,
// bounding the cost of the scan to once per cache TTL per key.
//
// LastUsedAt is stamped on cache misses only, so its resolution is the
// cache TTL rather than every request.
func (a *apiKeyUseCase) Validate(
	ctx context.Context,
	plainAPIKey string,
) (*saDomain.ServiceAccount, error) {
	if plainAPIKey == "" {
		return nil, saDomain.ErrInvalidAPIKey
	}

	if account, ok := a.keyCache.Get(plainAPIKey); ok {
		return account, nil
	}

	accounts, err := a.accountRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	for _, account := range accounts {
		if !a.secretService.CompareSecret(plainAPIKey, account.APIKeyHash) {
			continue
		}

		now := time.Now().UTC()
		if err := a.accountRepo.UpdateLastUsed(ctx, account.ID, now); err != nil {
			return nil, err
		}
		account.LastUsedAt = &now

		a.keyCache.Put(plainAPIKey, account)
		return account, nil
	}

	return nil, saDomain.ErrInvalidAPIKey
}

// Revoke deactivates the account. Cached entries for the account are
// evicted so the key stops validating within this process immediately;
// other processes converge within their cache TTL.
func (a *apiKeyUseCase) Revoke(ctx context.Context, accountID uuid.UUID) error {
	err := a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		account, err := a.accountRepo.GetByID(txCtx, accountID)
		if err != nil {
			return err
		}

		if !account.Active {
			return saDomain.ErrServiceAccountInactive
		}

		now := time.Now().UTC()
		account.Active = false
		account.RevokedAt = &now

		return a.accountRepo.Update(txCtx, account)
	})
	if err != nil {
		return err
	}

	a.keyCache.EvictAccount(accountID)
	return nil
}

// Rotate replaces the account's API key and reactivates the account. The
// old key is evicted from the cache, so it stops working in this process
// at once.
func (a *apiKeyUseCase) Rotate(
	ctx context.Context,
	accountID uuid.UUID,
) (*saDomain.GenerateAPIKeyOutput, error) {
	plainKey, hashedKey, err := a.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	var output *saDomain.GenerateAPIKeyOutput
	err = a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		account, err := a.accountRepo.GetByID(txCtx, accountID)
		if err != nil {
			return err
		}

		account.APIKeyHash = hashedKey
		account.Active = true
		account.RevokedAt = nil

		if err := a.accountRepo.Update(txCtx, account); err != nil {
			return err
		}

		output = &saDomain.GenerateAPIKeyOutput{
			ID:          account.ID,
			ServiceName: account.ServiceName,
			PlainAPIKey: plainKey,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.keyCache.EvictAccount(accountID)
	return output, nil
}

// Get retrieves a service account by ID.
func (a *apiKeyUseCase) Get(ctx context.Context, accountID uuid.UUID) (*saDomain.ServiceAccount, error) {
	return a.accountRepo.GetByID(ctx, accountID)
}

// GetByServiceName retrieves a service account by service name.
func (a *apiKeyUseCase) GetByServiceName(
	ctx context.Context,
	serviceName string,
) (*saDomain.ServiceAccount, error) {
	return a.accountRepo.GetByServiceName(ctx, serviceName)
}

// List retrieves service accounts with pagination.
func (a *apiKeyUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*saDomain.ServiceAccount, error) {
	return a.accountRepo.List(ctx, offset, limit)
}
