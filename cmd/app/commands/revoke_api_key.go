package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/allisson/authgate/internal/app"
	"github.com/allisson/authgate/internal/config"
)

// RunRevokeAPIKey deactivates a service account so its API key can no longer
// authenticate. The account record is kept for audit purposes.
//
// Requirements: Database must be migrated and accessible.
func RunRevokeAPIKey(ctx context.Context, accountID string, cmdIO IOTuple) error {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return fmt.Errorf("invalid service account id: %w", err)
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	logger.Info("revoking api key", slog.String("service_account_id", id.String()))

	defer closeContainer(container, logger)

	apiKeyUC, err := container.APIKeyUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize api key use case: %w", err)
	}

	if err := apiKeyUC.Revoke(ctx, id); err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}

	_, _ = fmt.Fprintf(cmdIO.Writer, "API key revoked for service account %s\n", id.String())

	logger.Info("api key revoked successfully", slog.String("service_account_id", id.String()))
	return nil
}
