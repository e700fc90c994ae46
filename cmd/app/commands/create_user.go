package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/authgate/internal/app"
	authDomain "github.com/allisson/authgate/internal/auth/domain"
	"github.com/allisson/authgate/internal/config"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// RunCreateUser creates a new user account from the command line.
// Regular users go through the standard registration flow; the admin flag
// writes the user directly with the admin role, which is the bootstrap path
// for the first administrator since registration never grants elevated roles.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	username, email, password, firstName, lastName string,
	admin bool,
	format string,
	cmdIO IOTuple,
) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	logger.Info("creating new user",
		slog.String("username", username),
		slog.Bool("admin", admin),
	)

	defer closeContainer(container, logger)

	input := &userDomain.RegisterUserInput{
		Username:  username,
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
	}

	var user *userDomain.User
	var err error

	if admin {
		user, err = createAdminUser(ctx, container, input)
	} else {
		userUC, ucErr := container.UserUseCase()
		if ucErr != nil {
			return fmt.Errorf("failed to initialize user use case: %w", ucErr)
		}
		user, err = userUC.Register(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		outputUserJSON(user, cmdIO.Writer)
	} else {
		outputUserText(user, cmdIO.Writer)
	}

	logger.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username),
		slog.String("role", user.Role),
	)

	return nil
}

// createAdminUser writes an admin user directly through the repository.
// Registration fixes the role of new users, so the bootstrap path hashes the
// password itself and stores the record with the admin role.
func createAdminUser(
	ctx context.Context,
	container *app.Container,
	input *userDomain.RegisterUserInput,
) (*userDomain.User, error) {
	userRepo, err := container.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize user repository: %w", err)
	}

	hashedPassword, err := container.SecretService().HashSecret(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &userDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  input.Username,
		Email:     input.Email,
		Password:  hashedPassword,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      authDomain.RoleAdmin,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// outputUserText outputs the result in human-readable text format.
func outputUserText(user *userDomain.User, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nUser created successfully!")
	_, _ = fmt.Fprintf(writer, "User ID: %s\n", user.ID.String())
	_, _ = fmt.Fprintf(writer, "Username: %s\n", user.Username)
	_, _ = fmt.Fprintf(writer, "Email: %s\n", user.Email)
	_, _ = fmt.Fprintf(writer, "Role: %s\n", user.Role)
}

// outputUserJSON outputs the result in JSON format for machine consumption.
func outputUserJSON(user *userDomain.User, writer io.Writer) {
	result := map[string]string{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
