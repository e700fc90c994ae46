// Package usecase defines business logic interfaces for credential operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	saDomain "github.com/allisson/authgate/internal/serviceaccount/domain"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// RefreshTokenRepository defines persistence operations for refresh tokens.
// Implementations must support transaction-aware operations via context propagation.
type RefreshTokenRepository interface {
	// Create stores a new refresh token record.
	Create(ctx context.Context, token *authDomain.RefreshToken) error

	// GetByToken retrieves a refresh token by its token string. Returns
	// ErrInvalidRefreshToken if not found.
	GetByToken(ctx context.Context, tokenString string) (*authDomain.RefreshToken, error)

	// Revoke marks the token as revoked. Returns ErrInvalidRefreshToken if
	// no record matches.
	Revoke(ctx context.Context, tokenString string) error

	// RevokeAllForPrincipal revokes every non-revoked token owned by the
	// principal.
	RevokeAllForPrincipal(ctx context.Context, principalID string) error

	// DeleteExpired removes tokens that expired before the cutoff and
	// returns how many were deleted.
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)
}

// UserRepository defines the user lookups needed by the credential engine.
type UserRepository interface {
	// GetByUsername retrieves a user by username. Returns ErrUserNotFound
	// if not found.
	GetByUsername(ctx context.Context, username string) (*userDomain.User, error)

	// UpdateLastLogin stamps the user's last successful login time.
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// APIKeyValidator resolves a presented API key to its active service
// account. Implemented by the service account use case, which fronts the
// lookup with a process-local cache.
type APIKeyValidator interface {
	Validate(ctx context.Context, plainAPIKey string) (*saDomain.ServiceAccount, error)
}

// ServiceAccountReader exposes the service account operations the credential
// engine needs: resolving the principal behind a token subject and stamping
// successful logins.
type ServiceAccountReader interface {
	// GetByServiceName retrieves a service account by its unique service
	// name. Returns ErrServiceAccountNotFound if not found.
	GetByServiceName(ctx context.Context, serviceName string) (*saDomain.ServiceAccount, error)

	// UpdateLastUsed stamps when the account last authenticated.
	UpdateLastUsed(ctx context.Context, accountID uuid.UUID, usedAt time.Time) error
}

// AuthUseCase is the credential engine: it authenticates principals, issues
// and rotates token pairs, and validates presented tokens.
type AuthUseCase interface {
	// LoginUser authenticates a user by username and password and issues a
	// fresh token pair. Any previously active refresh token for the user is
	// revoked in the same transaction that stores the new one, so at most
	// one refresh token per user is ever active.
	//
	// Returns ErrInvalidCredentials for unknown usernames and wrong
	// passwords alike, and ErrPrincipalDisabled for disabled accounts.
	LoginUser(ctx context.Context, username, password string) (*authDomain.TokenPair, error)

	// LoginServiceAccount authenticates a service account by name and API
	// key and issues a token pair with service claims. The key is checked
	// directly against the named account's digest, bypassing the
	// validation cache. Follows the same single-active-refresh-token rule
	// as LoginUser.
	//
	// Returns ErrServiceAccountNotFound for unknown names,
	// ErrServiceAccountInactive for revoked accounts, and
	// ErrInvalidAPIKey for a key that does not match.
	LoginServiceAccount(ctx context.Context, serviceName, plainAPIKey string) (*authDomain.TokenPair, error)

	// RefreshAccess exchanges a valid refresh token for a new access token.
	// The refresh token itself is NOT rotated; the returned pair carries
	// the same refresh token that was presented.
	//
	// Returns ErrRefreshTokenRevoked for revoked tokens,
	// ErrRefreshTokenExpired for expired ones, and ErrInvalidRefreshToken
	// for unknown or malformed tokens.
	RefreshAccess(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error)

	// Logout revokes the presented refresh token. Logging out with an
	// already revoked token is a no-op, not an error.
	Logout(ctx context.Context, refreshToken string) error

	// ValidateAccessToken verifies a presented access token and returns
	// the authenticated principal together with the token's claims.
	ValidateAccessToken(ctx context.Context, accessToken string) (authDomain.Principal, map[string]any, error)
}
