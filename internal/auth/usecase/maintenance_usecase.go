package usecase

import (
	"context"
	"time"
)

// TokenMaintenanceUseCase handles housekeeping of the refresh token store.
// Expired tokens are rejected at validation time regardless of whether they
// still exist, so purging is purely about keeping the table small.
type TokenMaintenanceUseCase interface {
	// PurgeExpired deletes refresh tokens whose expiry has passed and
	// returns how many were removed.
	PurgeExpired(ctx context.Context) (int64, error)
}

type tokenMaintenanceUseCase struct {
	refreshRepo RefreshTokenRepository
}

// NewTokenMaintenanceUseCase creates a new TokenMaintenanceUseCase.
func NewTokenMaintenanceUseCase(refreshRepo RefreshTokenRepository) TokenMaintenanceUseCase {
	return &tokenMaintenanceUseCase{refreshRepo: refreshRepo}
}

func (t *tokenMaintenanceUseCase) PurgeExpired(ctx context.Context) (int64, error) {
	return t.refreshRepo.DeleteExpired(ctx, time.Now().UTC())
}
