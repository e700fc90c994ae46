package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted record of an issued refresh token.
//
// Invariant: at most one non-revoked, non-expired token exists per principal
// at any time. Logins enforce this by revoking every prior token for the
// principal and inserting the replacement inside the same transaction.
//
// Lifecycle: Active -> Revoked (logout, rotation, superseding login) or
// Active -> Expired (time passes ExpiresAt; detected lazily at validation,
// never swept for correctness). Both end states are terminal.
type RefreshToken struct {
	ID          uuid.UUID // Unique identifier (UUIDv7)
	PrincipalID string    // Subject identifier of the owning principal
	Token       string    // The signed token string (carries its own expiry)
	ExpiresAt   time.Time
	Revoked     bool
	CreatedAt   time.Time
}

// IsExpired reports whether the token is past its expiry at the given
// instant. A token observed at exactly its expiry instant is expired.
func (r *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// TokenPair is the result of a successful login: a short-lived access token
// and the refresh token that obtains its successors.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64 // Access token lifetime in seconds
}
