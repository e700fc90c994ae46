// Package service provides technical services for credential operations:
// secret generation and hashing, and the signed token codec.
package service

import (
	"time"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
)

// SecretService defines operations for secret generation and verification.
// Implementations must use cryptographically secure random generation and a
// salted, one-way hashing algorithm (e.g., argon2id). Because the digests
// are salted, a presented secret can only be checked with CompareSecret,
// never by re-deriving and equality-matching a digest.
type SecretService interface {
	// GenerateSecret creates a new cryptographically secure random secret.
	// Returns both the plaintext (shown to the caller exactly once) and the
	// digest to persist.
	GenerateSecret() (plainSecret string, hashedSecret string, error error)

	// HashSecret hashes a plaintext secret.
	HashSecret(plainSecret string) (hashedSecret string, error error)

	// CompareSecret performs a constant-time comparison between a plaintext
	// secret and a stored digest.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// TokenCodec signs and verifies the compact, self-contained access and
// refresh tokens. Access tokens are never persisted; their validity is
// determined purely by signature and expiry at verification time.
type TokenCodec interface {
	// IssueAccessToken mints a signed access token for the principal with
	// the given extra claims and time to live.
	IssueAccessToken(principal authDomain.Principal, extraClaims map[string]any, ttl time.Duration) (string, error)

	// IssueRefreshToken mints a signed refresh token carrying only the
	// principal identifier.
	IssueRefreshToken(principal authDomain.Principal, ttl time.Duration) (string, error)

	// VerifyAccessToken checks signature, expiry, and subject against the
	// expected principal, returning the claim map on success.
	VerifyAccessToken(token string, principal authDomain.Principal) (map[string]any, error)

	// VerifyRefreshToken is VerifyAccessToken for tokens signed with the
	// refresh key.
	VerifyRefreshToken(token string, principal authDomain.Principal) (map[string]any, error)

	// ExtractSubject parses the token without verifying the signature and
	// returns the subject identifier. Used to look up the candidate
	// principal before full verification, so a principal disabled after
	// issuance is still rejected. Fails ErrMalformedToken on garbage.
	ExtractSubject(token string) (string, error)
}
