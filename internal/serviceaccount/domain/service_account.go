// Package domain defines service account domain models and business logic.
//
// A service account is the non-interactive counterpart to a user: it
// authenticates with an opaque API key whose Argon2id digest is the only
// stored credential. The plaintext key exists exactly once, in the response
// to the generation call.
package domain

import (
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	"github.com/allisson/authgate/internal/errors"
)

// ServiceAccount represents a non-interactive principal identified by a
// unique service name and authenticated by an API key digest.
type ServiceAccount struct {
	ID          uuid.UUID  // Unique identifier (UUIDv7)
	ServiceName string     // Unique, stable identifier used as the token subject
	Description string     // Human-readable purpose of the account
	APIKeyHash  string     //nolint:gosec // hashed API key (not plaintext)
	Active      bool       // Whether the account can authenticate
	CreatedAt   time.Time
	LastUsedAt  *time.Time // Stamped on every successful key validation
	RevokedAt   *time.Time // Stamped when the key is revoked or rotated
}

// Identifier returns the service name, the stable subject identifier
// embedded in tokens issued to this account.
func (s *ServiceAccount) Identifier() string {
	return s.ServiceName
}

// CredentialDigest returns the stored API key digest.
func (s *ServiceAccount) CredentialDigest() string {
	return s.APIKeyHash
}

// Authorities returns the fixed service role.
func (s *ServiceAccount) Authorities() []string {
	return []string{authDomain.RoleService}
}

// IsEnabled reports whether the account may authenticate.
func (s *ServiceAccount) IsEnabled() bool {
	return s.Active
}

var _ authDomain.Principal = (*ServiceAccount)(nil)

// GenerateAPIKeyInput contains the parameters for creating a service account.
type GenerateAPIKeyInput struct {
	ServiceName string // Unique name identifying the service
	Description string // Human-readable purpose
}

// GenerateAPIKeyOutput contains the result of generating an API key.
// SECURITY: PlainAPIKey is only returned once and must be securely
// transmitted to the caller. It is never retrievable again.
type GenerateAPIKeyOutput struct {
	ID          uuid.UUID // Service account identifier (UUIDv7)
	ServiceName string
	PlainAPIKey string // Plaintext API key (transmit securely, never log)
}

// Service account errors.
var (
	// ErrServiceAccountNotFound indicates the service account does not exist.
	ErrServiceAccountNotFound = errors.Wrap(errors.ErrNotFound, "service account not found")

	// ErrServiceAccountInactive indicates the account exists but was revoked
	// or disabled.
	ErrServiceAccountInactive = errors.Wrap(errors.ErrForbidden, "service account is inactive")

	// ErrInvalidAPIKey indicates a presented API key that matched no active
	// account.
	ErrInvalidAPIKey = errors.Wrap(errors.ErrUnauthorized, "invalid api key")

	// ErrServiceNameExists indicates the service name is already taken.
	ErrServiceNameExists = errors.Wrap(errors.ErrConflict, "service name already exists")
)
