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
	saDomain "github.com/allisson/authgate/internal/serviceaccount/domain"
)

// RunCreateServiceAccount creates a new service account with a fresh API key.
// Outputs the account ID and the plaintext key in either text or JSON format.
// The key is shown only once and is never retrievable again.
//
// Requirements: Database must be migrated and accessible.
func RunCreateServiceAccount(
	ctx context.Context,
	serviceName, description string,
	format string,
	cmdIO IOTuple,
) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	logger.Info("creating new service account", slog.String("service_name", serviceName))

	defer closeContainer(container, logger)

	apiKeyUC, err := container.APIKeyUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize api key use case: %w", err)
	}

	output, err := apiKeyUC.Generate(ctx, &saDomain.GenerateAPIKeyInput{
		ServiceName: serviceName,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("failed to create service account: %w", err)
	}

	if format == "json" {
		outputAPIKeyJSON(output, cmdIO.Writer)
	} else {
		outputAPIKeyText(output, cmdIO.Writer)
	}

	logger.Info("service account created successfully",
		slog.String("service_account_id", output.ID.String()),
		slog.String("service_name", output.ServiceName),
	)

	return nil
}

// outputAPIKeyText outputs the result in human-readable text format.
func outputAPIKeyText(output *saDomain.GenerateAPIKeyOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nService account created successfully!")
	_, _ = fmt.Fprintf(writer, "Service Account ID: %s\n", output.ID.String())
	_, _ = fmt.Fprintf(writer, "Service Name: %s\n", output.ServiceName)
	_, _ = fmt.Fprintf(writer, "API Key: %s\n", output.PlainAPIKey)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The API key is shown only once. Store it securely.")
}

// outputAPIKeyJSON outputs the result in JSON format for machine consumption.
func outputAPIKeyJSON(output *saDomain.GenerateAPIKeyOutput, writer io.Writer) {
	result := map[string]string{
		"service_account_id": output.ID.String(),
		"service_name":       output.ServiceName,
		"api_key":            output.PlainAPIKey,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
