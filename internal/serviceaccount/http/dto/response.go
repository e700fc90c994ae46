// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	saDomain "github.com/allisson/authgate/internal/serviceaccount/domain"
)

// GenerateAPIKeyResponse contains the result of creating a service account
// or rotating its key.
// SECURITY: The API key is only returned once and must be saved securely.
type GenerateAPIKeyResponse struct {
	ID          string `json:"id"`
	ServiceName string `json:"service_name"`
	APIKey      string `json:"api_key"` //nolint:gosec // returned once on generation
}

// MapGenerateOutputToResponse converts a generation output to an API response.
func MapGenerateOutputToResponse(output *saDomain.GenerateAPIKeyOutput) GenerateAPIKeyResponse {
	return GenerateAPIKeyResponse{
		ID:          output.ID.String(),
		ServiceName: output.ServiceName,
		APIKey:      output.PlainAPIKey,
	}
}

// ServiceAccountResponse represents a service account in API responses
// (excludes the key digest).
type ServiceAccountResponse struct {
	ID          string     `json:"id"`
	ServiceName string     `json:"service_name"`
	Description string     `json:"description,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// MapServiceAccountToResponse converts a domain service account to an API response.
func MapServiceAccountToResponse(account *saDomain.ServiceAccount) ServiceAccountResponse {
	return ServiceAccountResponse{
		ID:          account.ID.String(),
		ServiceName: account.ServiceName,
		Description: account.Description,
		Active:      account.Active,
		CreatedAt:   account.CreatedAt,
		LastUsedAt:  account.LastUsedAt,
		RevokedAt:   account.RevokedAt,
	}
}

// ListServiceAccountsResponse represents a paginated list of service
// accounts in API responses.
type ListServiceAccountsResponse struct {
	Data []ServiceAccountResponse `json:"data"`
}

// MapServiceAccountsToListResponse converts a slice of domain service
// accounts to a list API response.
func MapServiceAccountsToListResponse(accounts []*saDomain.ServiceAccount) ListServiceAccountsResponse {
	accountResponses := make([]ServiceAccountResponse, 0, len(accounts))
	for _, account := range accounts {
		accountResponses = append(accountResponses, MapServiceAccountToResponse(account))
	}
	return ListServiceAccountsResponse{
		Data: accountResponses,
	}
}
