package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/allisson/authgate/internal/app"
	"github.com/allisson/authgate/internal/config"
)

// RunCleanExpiredRefreshTokens deletes refresh tokens whose expiry has passed.
// Expired tokens are rejected at validation time regardless, so this is
// purely housekeeping to keep the table small.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredRefreshTokens(ctx context.Context, format string, cmdIO IOTuple) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	logger.Info("cleaning expired refresh tokens")

	defer closeContainer(container, logger)

	maintenanceUC, err := container.TokenMaintenanceUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize token maintenance use case: %w", err)
	}

	count, err := maintenanceUC.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to clean expired refresh tokens: %w", err)
	}

	if format == "json" {
		outputCleanExpiredJSON(count, cmdIO.Writer)
	} else {
		outputCleanExpiredText(count, cmdIO.Writer)
	}

	logger.Info("cleanup completed", slog.Int64("count", count))
	return nil
}

// outputCleanExpiredText outputs the result in human-readable text format.
func outputCleanExpiredText(count int64, writer io.Writer) {
	_, _ = fmt.Fprintf(writer, "Successfully deleted %d expired refresh token(s)\n", count)
}

// outputCleanExpiredJSON outputs the result in JSON format for machine consumption.
func outputCleanExpiredJSON(count int64, writer io.Writer) {
	result := map[string]interface{}{
		"count": count,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
