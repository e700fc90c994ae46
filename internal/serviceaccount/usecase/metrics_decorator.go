package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/authgate/internal/metrics"
	saDomain "github.com/allisson/authgate/internal/serviceaccount/domain"
)

// apiKeyUseCaseWithMetrics decorates APIKeyUseCase with metrics instrumentation.
type apiKeyUseCaseWithMetrics struct {
	next    APIKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewAPIKeyUseCaseWithMetrics wraps an APIKeyUseCase with metrics recording.
func NewAPIKeyUseCaseWithMetrics(useCase APIKeyUseCase, m metrics.BusinessMetrics) APIKeyUseCase {
	return &apiKeyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Generate records metrics for API key generation operations.
func (a *apiKeyUseCaseWithMetrics) Generate(
	ctx context.Context,
	input *saDomain.GenerateAPIKeyInput,
) (*saDomain.GenerateAPIKeyOutput, error) {
	start := time.Now()
	output, err := a.next.Generate(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "serviceaccount", "api_key_generate", status)
	a.metrics.RecordDuration(ctx, "serviceaccount", "api_key_generate", time.Since(start), status)

	return output, err
}

// Validate records metrics for API key validation operations.
func (a *apiKeyUseCaseWithMetrics) Validate(
	ctx context.Context,
	plainAPIKey string,
) (*saDomain.ServiceAccount, error) {
	start := time.Now()
	account, err := a.next.Validate(ctx, plainAPIKey)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "serviceaccount", "api_key_validate", status)
	a.metrics.RecordDuration(ctx, "serviceaccount", "api_key_validate", time.Since(start), status)

	return account, err
}

// Revoke records metrics for API key revocation operations.
func (a *apiKeyUseCaseWithMetrics) Revoke(ctx context.Context, accountID uuid.UUID) error {
	start := time.Now()
	err := a.next.Revoke(ctx, accountID)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "serviceaccount", "api_key_revoke", status)
	a.metrics.RecordDuration(ctx, "serviceaccount", "api_key_revoke", time.Since(start), status)

	return err
}

// Rotate records metrics for API key rotation operations.
func (a *apiKeyUseCaseWithMetrics) Rotate(
	ctx context.Context,
	accountID uuid.UUID,
) (*saDomain.GenerateAPIKeyOutput, error) {
	start := time.Now()
	output, err := a.next.Rotate(ctx, accountID)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "serviceaccount", "api_key_rotate", status)
	a.metrics.RecordDuration(ctx, "serviceaccount", "api_key_rotate", time.Since(start), status)

	return output, err
}

// Get records metrics for service account retrieval operations.
func (a *apiKeyUseCaseWithMetrics) Get(
	ctx context.Context,
	accountID uuid.UUID,
) (*saDomain.ServiceAccount, error) {
	start := time.Now()
	account, err := a.next.Get(ctx, accountID)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "serviceaccount", "account_get", status)
	a.metrics.RecordDuration(ctx, "serviceaccount", "account_get", time.Since(start), status)

	return account, err
}

// GetByServiceName records metrics for service account lookup operations.
func (a *apiKeyUseCaseWithMetrics) GetByServiceName(
	ctx context.Context,
	serviceName string,
) (*saDomain.ServiceAccount, error) {
	start := time.Now()
	account, err := a.next.GetByServiceName(ctx, serviceName)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "serviceaccount", "account_get_by_name", status)
	a.metrics.RecordDuration(ctx, "serviceaccount", "account_get_by_name", time.Since(start), status)

	return account, err
}

// List records metrics for service account list operations.
func (a *apiKeyUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*saDomain.ServiceAccount, error) {
	start := time.Now()
	accounts, err := a.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "serviceaccount", "account_list", status)
	a.metrics.RecordDuration(ctx, "serviceaccount", "account_list", time.Since(start), status)

	return accounts, err
}
