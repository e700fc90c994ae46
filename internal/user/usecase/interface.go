// Package usecase defines business logic interfaces for user management.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// UserRepository defines persistence operations for users.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	// Create stores a new user. Returns ErrUsernameExists or
	// ErrEmailExists on unique constraint violations.
	Create(ctx context.Context, user *userDomain.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)

	// GetByUsername retrieves a user by username. Returns ErrUserNotFound
	// if not found.
	GetByUsername(ctx context.Context, username string) (*userDomain.User, error)

	// UpdateLastLogin stamps the user's last successful login time.
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// UserUseCase manages user accounts.
type UserUseCase interface {
	// Register creates a new enabled user with the default role. The
	// password is hashed before storage; the returned user carries the
	// digest, never the plaintext.
	//
	// Returns ErrUsernameExists or ErrEmailExists when the username or
	// email is already taken, and ErrInvalidInput for malformed input.
	Register(ctx context.Context, input *userDomain.RegisterUserInput) (*userDomain.User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*userDomain.User, error)
}
