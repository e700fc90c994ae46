package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/allisson/authgate/internal/app"
	"github.com/allisson/authgate/internal/config"
)

// RunRotateAPIKey replaces a service account's API key with a fresh one and
// reactivates the account. The old key stops working immediately; the new
// plaintext key is shown only once.
//
// Requirements: Database must be migrated and accessible.
func RunRotateAPIKey(ctx context.Context, accountID string, format string, cmdIO IOTuple) error {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return fmt.Errorf("invalid service account id: %w", err)
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	logger.Info("rotating api key", slog.String("service_account_id", id.String()))

	defer closeContainer(container, logger)

	apiKeyUC, err := container.APIKeyUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize api key use case: %w", err)
	}

	output, err := apiKeyUC.Rotate(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to rotate api key: %w", err)
	}

	if format == "json" {
		outputAPIKeyJSON(output, cmdIO.Writer)
	} else {
		outputAPIKeyText(output, cmdIO.Writer)
	}

	logger.Info("api key rotated successfully",
		slog.String("service_account_id", output.ID.String()),
		slog.String("service_name", output.ServiceName),
	)

	return nil
}
