// Package domain defines the user domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	"github.com/allisson/authgate/internal/errors"
)

// User represents an interactive user account. The Password field holds the
// Argon2id digest of the password, never the plaintext.
type User struct {
	ID          uuid.UUID
	Username    string
	Email       string
	Password    string //nolint:gosec // hashed password digest (not plaintext)
	FirstName   string
	LastName    string
	Role        string
	Enabled     bool
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Identifier returns the username, the stable subject identifier embedded
// in tokens issued to this user.
func (u *User) Identifier() string {
	return u.Username
}

// CredentialDigest returns the stored password digest.
func (u *User) CredentialDigest() string {
	return u.Password
}

// Authorities returns the user's granted roles.
func (u *User) Authorities() []string {
	return []string{u.Role}
}

// IsEnabled reports whether the user may authenticate.
func (u *User) IsEnabled() bool {
	return u.Enabled
}

var _ authDomain.Principal = (*User)(nil)

// RegisterUserInput contains the fields accepted at registration time.
// Role and Enabled are not caller-controlled: new users always start as
// enabled regular users.
type RegisterUserInput struct {
	Username  string
	Email     string
	Password  string // Plaintext, hashed before storage
	FirstName string
	LastName  string
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUsernameExists indicates a user with the same username already exists.
	ErrUsernameExists = errors.Wrap(errors.ErrConflict, "username already exists")

	// ErrEmailExists indicates a user with the same email already exists.
	ErrEmailExists = errors.Wrap(errors.ErrConflict, "email already exists")
)
