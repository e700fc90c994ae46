package usecase

import (
	"context"
	"time"

	"github.com/allisson/authgate/internal/metrics"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// userUseCaseWithMetrics decorates UserUseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UserUseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UserUseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UserUseCase, m metrics.BusinessMetrics) UserUseCase {
	return &userUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Register records metrics for user registration operations.
func (u *userUseCaseWithMetrics) Register(
	ctx context.Context,
	input *userDomain.RegisterUserInput,
) (*userDomain.User, error) {
	start := time.Now()
	user, err := u.next.Register(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "user", "register", status)
	u.metrics.RecordDuration(ctx, "user", "register", time.Since(start), status)

	return user, err
}

// GetByUsername records metrics for user lookup operations.
func (u *userUseCaseWithMetrics) GetByUsername(
	ctx context.Context,
	username string,
) (*userDomain.User, error) {
	start := time.Now()
	user, err := u.next.GetByUsername(ctx, username)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "user", "get_by_username", status)
	u.metrics.RecordDuration(ctx, "user", "get_by_username", time.Since(start), status)

	return user, err
}
