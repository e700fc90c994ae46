// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	saDomain "github.com/allisson/authgate/internal/serviceaccount/domain"
	customValidation "github.com/allisson/authgate/internal/validation"
)

// GenerateAPIKeyRequest contains the parameters for creating a service account.
type GenerateAPIKeyRequest struct {
	ServiceName string `json:"service_name"`
	Description string `json:"description"`
}

// Validate checks if the generate request is valid. Length limits are
// enforced by the use case.
func (r *GenerateAPIKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ServiceName,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// ToInput converts the request to a use case input.
func (r *GenerateAPIKeyRequest) ToInput() *saDomain.GenerateAPIKeyInput {
	return &saDomain.GenerateAPIKeyInput{
		ServiceName: r.ServiceName,
		Description: r.Description,
	}
}
