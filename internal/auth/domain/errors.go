package domain

import (
	"github.com/allisson/authgate/internal/errors"
)

// Authentication errors.
var (
	// ErrInvalidCredentials indicates the presented username/password or
	// service credentials did not match. Deliberately generic to prevent
	// principal enumeration.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrMalformedToken indicates a token that could not be parsed at all.
	ErrMalformedToken = errors.Wrap(errors.ErrUnauthorized, "malformed token")

	// ErrTokenExpired indicates a structurally valid access token past its expiry.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "token has expired")

	// ErrInvalidToken indicates a token whose signature or subject did not verify.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrInvalidRefreshToken indicates a refresh token with no matching record.
	ErrInvalidRefreshToken = errors.Wrap(errors.ErrUnauthorized, "invalid refresh token")

	// ErrRefreshTokenRevoked indicates a refresh token that was revoked by
	// logout, rotation, or a superseding login.
	ErrRefreshTokenRevoked = errors.Wrap(errors.ErrUnauthorized, "refresh token has been revoked")

	// ErrRefreshTokenExpired indicates a refresh token past its stored expiry.
	ErrRefreshTokenExpired = errors.Wrap(errors.ErrUnauthorized, "refresh token has expired")

	// ErrPrincipalDisabled indicates the underlying account was disabled
	// after the token was issued.
	ErrPrincipalDisabled = errors.Wrap(errors.ErrForbidden, "principal is disabled")
)
