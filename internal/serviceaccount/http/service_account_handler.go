// Package http provides HTTP handlers for service account management operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/authgate/internal/auth/http"
	apperrors "github.com/allisson/authgate/internal/errors"
	"github.com/allisson/authgate/internal/httputil"
	"github.com/allisson/authgate/internal/serviceaccount/http/dto"
	saUseCase "github.com/allisson/authgate/internal/serviceaccount/usecase"
	customValidation "github.com/allisson/authgate/internal/validation"
)

// ServiceAccountHandler handles HTTP requests for service account operations.
// Management routes are admin-only; the role guard is applied at routing
// time. The /me route is available to any API key authenticated service.
type ServiceAccountHandler struct {
	apiKeyUseCase saUseCase.APIKeyUseCase
	logger        *slog.Logger
}

// NewServiceAccountHandler creates a new service account handler with
// required dependencies.
func NewServiceAccountHandler(
	apiKeyUseCase saUseCase.APIKeyUseCase,
	logger *slog.Logger,
) *ServiceAccountHandler {
	return &ServiceAccountHandler{
		apiKeyUseCase: apiKeyUseCase,
		logger:        logger,
	}
}

// GenerateHandler creates a new service account with a fresh API key.
// POST /api/v1/service-accounts
// Returns 201 Created with the plaintext key; the key is never retrievable again.
func (h *ServiceAccountHandler) GenerateHandler(c *gin.Context) {
	var req dto.GenerateAPIKeyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.apiKeyUseCase.Generate(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapGenerateOutputToResponse(output))
}

// RevokeHandler deactivates a service account so its key no longer
// authenticates. The record is kept for audit purposes.
// POST /api/v1/service-accounts/:id/revoke
// Returns 204 No Content.
func (h *ServiceAccountHandler) RevokeHandler(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid service account id format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.apiKeyUseCase.Revoke(c.Request.Context(), accountID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// RotateHandler replaces a service account's API key and reactivates the
// account. The old key stops working immediately.
// POST /api/v1/service-accounts/:id/rotate
// Returns 200 OK with the new plaintext key.
func (h *ServiceAccountHandler) RotateHandler(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid service account id format: must be a valid UUID"),
			h.logger)
		return
	}

	output, err := h.apiKeyUseCase.Rotate(c.Request.Context(), accountID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapGenerateOutputToResponse(output))
}

// GetHandler retrieves a single service account.
// GET /api/v1/service-accounts/:id
// Returns 200 OK with the account.
func (h *ServiceAccountHandler) GetHandler(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid service account id format: must be a valid UUID"),
			h.logger)
		return
	}

	account, err := h.apiKeyUseCase.Get(c.Request.Context(), accountID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapServiceAccountToResponse(account))
}

// ListHandler retrieves service accounts with pagination, newest first.
// GET /api/v1/service-accounts?offset=0&limit=50
// Returns 200 OK with the accounts.
func (h *ServiceAccountHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	accounts, err := h.apiKeyUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapServiceAccountsToListResponse(accounts))
}

// MeHandler returns the service account of the calling service. The caller
// authenticates with its API key; the key middleware resolves the identity.
// GET /api/v1/service-accounts/me
// Returns 200 OK with the account.
func (h *ServiceAccountHandler) MeHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	account, err := h.apiKeyUseCase.GetByServiceName(c.Request.Context(), principal.Identifier())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapServiceAccountToResponse(account))
}
