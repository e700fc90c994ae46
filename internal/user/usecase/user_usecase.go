// Package usecase implements business logic orchestration for user management.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	authService "github.com/allisson/authgate/internal/auth/service"
	userDomain "github.com/allisson/authgate/internal/user/domain"
	appvalidation "github.com/allisson/authgate/internal/validation"
)

// userUseCase implements UserUseCase.
type userUseCase struct {
	userRepo      UserRepository
	secretService authService.SecretService
}

// NewUserUseCase creates a new UserUseCase with the provided dependencies.
func NewUserUseCase(userRepo UserRepository, secretService authService.SecretService) UserUseCase {
	return &userUseCase{
		userRepo:      userRepo,
		secretService: secretService,
	}
}

// validateRegisterInput checks the registration input fields.
func validateRegisterInput(input *userDomain.RegisterUserInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Username,
			validation.Required,
			validation.Length(3, 100),
			appvalidation.NotBlank,
			appvalidation.NoWhitespace,
		),
		validation.Field(&input.Email,
			validation.Required,
			validation.Length(3, 255),
			appvalidation.Email,
		),
		validation.Field(&input.Password,
			validation.Required,
			appvalidation.PasswordStrength{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		),
		validation.Field(&input.FirstName, validation.Length(0, 100)),
		validation.Field(&input.LastName, validation.Length(0, 100)),
	)
	return appvalidation.WrapValidationError(err)
}

// Register creates a new enabled user with the default role.
func (u *userUseCase) Register(
	ctx context.Context,
	input *userDomain.RegisterUserInput,
) (*userDomain.User, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := u.secretService.HashSecret(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &userDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  input.Username,
		Email:     input.Email,
		Password:  hashedPassword,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      authDomain.RoleUser,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetByUsername retrieves a user by username.
func (u *userUseCase) GetByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	return u.userRepo.GetByUsername(ctx, username)
}
