package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	"github.com/allisson/authgate/internal/metrics"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// LoginUser records metrics for user login operations.
func (a *authUseCaseWithMetrics) LoginUser(
	ctx context.Context,
	username, password string,
) (*authDomain.TokenPair, error) {
	start := time.Now()
	pair, err := a.next.LoginUser(ctx, username, password)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "login_user", status)
	a.metrics.RecordDuration(ctx, "auth", "login_user", time.Since(start), status)

	return pair, err
}

// LoginServiceAccount records metrics for service account login operations.
func (a *authUseCaseWithMetrics) LoginServiceAccount(
	ctx context.Context,
	serviceName, plainAPIKey string,
) (*authDomain.TokenPair, error) {
	start := time.Now()
	pair, err := a.next.LoginServiceAccount(ctx, serviceName, plainAPIKey)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "login_service_account", status)
	a.metrics.RecordDuration(ctx, "auth", "login_service_account", time.Since(start), status)

	return pair, err
}

// RefreshAccess records metrics for access token refresh operations.
func (a *authUseCaseWithMetrics) RefreshAccess(
	ctx context.Context,
	refreshToken string,
) (*authDomain.TokenPair, error) {
	start := time.Now()
	pair, err := a.next.RefreshAccess(ctx, refreshToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "refresh_access", status)
	a.metrics.RecordDuration(ctx, "auth", "refresh_access", time.Since(start), status)

	return pair, err
}

// Logout records metrics for logout operations.
func (a *authUseCaseWithMetrics) Logout(ctx context.Context, refreshToken string) error {
	start := time.Now()
	err := a.next.Logout(ctx, refreshToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "logout", status)
	a.metrics.RecordDuration(ctx, "auth", "logout", time.Since(start), status)

	return err
}

// ValidateAccessToken records metrics for access token validation operations.
func (a *authUseCaseWithMetrics) ValidateAccessToken(
	ctx context.Context,
	accessToken string,
) (authDomain.Principal, map[string]any, error) {
	start := time.Now()
	principal, claims, err := a.next.ValidateAccessToken(ctx, accessToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "validate_access_token", status)
	a.metrics.RecordDuration(ctx, "auth", "validate_access_token", time.Since(start), status)

	return principal, claims, err
}

// tokenMaintenanceUseCaseWithMetrics decorates TokenMaintenanceUseCase with
// metrics instrumentation.
type tokenMaintenanceUseCaseWithMetrics struct {
	next    TokenMaintenanceUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenMaintenanceUseCaseWithMetrics wraps a TokenMaintenanceUseCase with
// metrics recording.
func NewTokenMaintenanceUseCaseWithMetrics(
	useCase TokenMaintenanceUseCase,
	m metrics.BusinessMetrics,
) TokenMaintenanceUseCase {
	return &tokenMaintenanceUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// PurgeExpired records metrics for refresh token purge operations.
func (t *tokenMaintenanceUseCaseWithMetrics) PurgeExpired(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := t.next.PurgeExpired(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "auth", "purge_expired_tokens", status)
	t.metrics.RecordDuration(ctx, "auth", "purge_expired_tokens", time.Since(start), status)

	return count, err
}
