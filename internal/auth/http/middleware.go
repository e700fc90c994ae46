// Package http provides HTTP handlers and middleware for authentication.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	authUseCase "github.com/allisson/authgate/internal/auth/usecase"
	apperrors "github.com/allisson/authgate/internal/errors"
	"github.com/allisson/authgate/internal/httputil"
)

// apiKeyHeader is the request header carrying a service account API key.
const apiKeyHeader = "X-API-Key" //nolint:gosec // header name, not a credential

// AuthenticationMiddleware provides authentication via Bearer access token
// in the Authorization header.
//
// The middleware:
// 1. Extracts the Bearer token from the Authorization header (case-insensitive)
// 2. Validates it using authUseCase.ValidateAccessToken()
// 3. Stores the authenticated principal and token claims in the request context
// 4. Allows downstream handlers to access them via GetPrincipal() and GetClaims()
//
// Error handling:
//   - Missing Authorization header → 401 Unauthorized
//   - Malformed Authorization header → 401 Unauthorized
//   - Invalid/expired token → 401 Unauthorized (from ValidateAccessToken)
//   - Disabled principal → 403 Forbidden (from ValidateAccessToken)
//
// Usage:
//
//	router.Use(AuthenticationMiddleware(authUseCase, logger))
//	router.GET("/protected", func(c *gin.Context) {
//	    principal, ok := GetPrincipal(c.Request.Context())
//	    ...
//	})
func AuthenticationMiddleware(
	authUseCase authUseCase.AuthUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header",
				slog.String("header", authHeader))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		accessToken := authHeader[len(bearerPrefix):]
		if accessToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		principal, claims, err := authUseCase.ValidateAccessToken(c.Request.Context(), accessToken)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithPrincipal(c.Request.Context(), principal)
		ctx = WithClaims(ctx, claims)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("principal", principal.Identifier()))

		c.Next()
	}
}

// APIKeyMiddleware provides authentication via API key in the X-API-Key header.
//
// An absent header means the request carries no service identity and passes
// through unauthenticated; a present but invalid key is rejected. This lets
// the middleware sit on routes that also accept bearer tokens.
//
// The middleware:
// 1. Reads the X-API-Key header; if absent, continues without identity
// 2. Validates the key using the validator's cached lookup
// 3. Stores the matched service account as the request principal
//
// Error handling:
//   - Absent X-API-Key header → no identity, request continues
//   - Invalid/revoked key → 401 Unauthorized
func APIKeyMiddleware(
	validator authUseCase.APIKeyValidator,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		plainKey := c.GetHeader(apiKeyHeader)
		if plainKey == "" {
			c.Next()
			return
		}

		account, err := validator.Validate(c.Request.Context(), plainKey)
		if err != nil {
			logger.Debug("api key authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithPrincipal(c.Request.Context(), account)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("api key authentication successful",
			slog.String("service_name", account.ServiceName))

		c.Next()
	}
}

// RequireRoleMiddleware provides role-based authorization for authenticated
// principals.
//
// This middleware MUST be used after AuthenticationMiddleware, as it requires
// an authenticated principal to be present in the request context. The
// principal's authorities must include the required role.
//
// Error handling:
//   - No principal in context → 401 Unauthorized (AuthenticationMiddleware not run)
//   - Principal lacks the role → 403 Forbidden
//
// Usage:
//
//	router.POST("/api/v1/service-accounts",
//	    AuthenticationMiddleware(authUseCase, logger),
//	    RequireRoleMiddleware(authDomain.RoleAdmin, logger),
//	    handler)
func RequireRoleMiddleware(role string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok || principal == nil {
			logger.Debug("authorization failed: no authenticated principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !hasAuthority(principal, role) {
			logger.Debug("authorization failed: insufficient role",
				slog.String("principal", principal.Identifier()),
				slog.String("required_role", role))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// hasAuthority reports whether the principal holds the given role.
func hasAuthority(principal authDomain.Principal, role string) bool {
	for _, authority := range principal.Authorities() {
		if authority == role {
			return true
		}
	}
	return false
}
