// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	authDomain "github.com/allisson/authgate/internal/auth/domain"
)

// TokenPairResponse contains the result of a successful login or refresh.
// SECURITY: Both tokens are bearer credentials and must be saved securely.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// MapTokenPairToResponse converts a domain token pair to an API response.
func MapTokenPairToResponse(pair *authDomain.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}
}
