// Package usecase implements business logic orchestration for credential operations.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	authService "github.com/allisson/authgate/internal/auth/service"
	"github.com/allisson/authgate/internal/config"
	"github.com/allisson/authgate/internal/database"
	saDomain "github.com/allisson/authgate/internal/serviceaccount/domain"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// authUseCase implements AuthUseCase.
type authUseCase struct {
	config        *config.Config
	txManager     database.TxManager
	refreshRepo   RefreshTokenRepository
	userRepo      UserRepository
	accountReader ServiceAccountReader
	secretService authService.SecretService
	tokenCodec    authService.TokenCodec
}

// NewAuthUseCase creates a new AuthUseCase with the provided dependencies.
func NewAuthUseCase(
	config *config.Config,
	txManager database.TxManager,
	refreshRepo RefreshTokenRepository,
	userRepo UserRepository,
	accountReader ServiceAccountReader,
	secretService authService.SecretService,
	tokenCodec authService.TokenCodec,
) AuthUseCase {
	return &authUseCase{
		config:        config,
		txManager:     txManager,
		refreshRepo:   refreshRepo,
		userRepo:      userRepo,
		accountReader: accountReader,
		secretService: secretService,
		tokenCodec:    tokenCodec,
	}
}

// LoginUser authenticates a user and issues a fresh token pair.
//
// Security Notes:
//   - Returns ErrInvalidCredentials for both unknown usernames and wrong
//     passwords to prevent user enumeration attacks
//   - Returns ErrPrincipalDisabled if the user exists but is disabled
//   - All prior refresh tokens for the user are revoked in the same
//     transaction that stores the new one
func (a *authUseCase) LoginUser(
	ctx context.Context,
	username, password string,
) (*authDomain.TokenPair, error) {
	user, err := a.userRepo.GetByUsername(ctx, username)
	if err != nil {
		// If user not found, return generic error to prevent enumeration
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsEnabled() {
		return nil, authDomain.ErrPrincipalDisabled
	}

	if !a.secretService.CompareSecret(password, user.CredentialDigest()) {
		return nil, authDomain.ErrInvalidCredentials
	}

	extraClaims := map[string]any{
		authDomain.ClaimRole: user.Role,
	}

	now := time.Now().UTC()
	pair, err := a.issuePair(ctx, user, extraClaims, func(txCtx context.Context) error {
		return a.userRepo.UpdateLastLogin(txCtx, user.ID, now)
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// LoginServiceAccount authenticates a service account by name and API key
// and issues a token pair carrying service claims.
//
// The key is compared directly against the named account's digest. The
// validation cache used for inbound requests is bypassed here, so a login
// always observes the account's current key and active state.
func (a *authUseCase) LoginServiceAccount(
	ctx context.Context,
	serviceName, plainAPIKey string,
) (*authDomain.TokenPair, error) {
	account, err := a.accountReader.GetByServiceName(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	if !account.IsEnabled() {
		return nil, saDomain.ErrServiceAccountInactive
	}

	if !a.secretService.CompareSecret(plainAPIKey, account.CredentialDigest()) {
		return nil, saDomain.ErrInvalidAPIKey
	}

	extraClaims := map[string]any{
		authDomain.ClaimRole:        authDomain.RoleService,
		authDomain.ClaimType:        authDomain.PrincipalTypeService,
		authDomain.ClaimServiceName: account.ServiceName,
		authDomain.ClaimServiceID:   account.ID.String(),
	}

	now := time.Now().UTC()
	return a.issuePair(ctx, account, extraClaims, func(txCtx context.Context) error {
		return a.accountReader.UpdateLastUsed(txCtx, account.ID, now)
	})
}

// RefreshAccess exchanges a valid refresh token for a new access token. The
// refresh token is returned unchanged; only logins rotate it.
func (a *authUseCase) RefreshAccess(
	ctx context.Context,
	refreshToken string,
) (*authDomain.TokenPair, error) {
	principal, err := a.resolveTokenPrincipal(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if !principal.IsEnabled() {
		return nil, authDomain.ErrPrincipalDisabled
	}

	// Verify the signature and embedded expiry before consulting the store
	if _, err := a.tokenCodec.VerifyRefreshToken(refreshToken, principal); err != nil {
		if errors.Is(err, authDomain.ErrTokenExpired) {
			return nil, authDomain.ErrRefreshTokenExpired
		}
		return nil, authDomain.ErrInvalidRefreshToken
	}

	// The stored record decides revocation and expiry, not just the token
	record, err := a.refreshRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if record.Revoked {
		return nil, authDomain.ErrRefreshTokenRevoked
	}
	if record.IsExpired(time.Now().UTC()) {
		return nil, authDomain.ErrRefreshTokenExpired
	}

	extraClaims := a.claimsForPrincipal(principal)

	accessToken, err := a.tokenCodec.IssueAccessToken(
		principal,
		extraClaims,
		a.config.AccessTokenExpiration,
	)
	if err != nil {
		return nil, err
	}

	return &authDomain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    authDomain.TokenTypeBearer,
		ExpiresIn:    int64(a.config.AccessTokenExpiration.Seconds()),
	}, nil
}

// Logout revokes the presented refresh token. Revoking an already revoked
// token succeeds so that repeated logouts are harmless.
func (a *authUseCase) Logout(ctx context.Context, refreshToken string) error {
	record, err := a.refreshRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	if record.Revoked {
		return nil
	}

	return a.refreshRepo.Revoke(ctx, refreshToken)
}

// ValidateAccessToken verifies a presented access token and returns the
// authenticated principal with the token's claims.
//
// The subject is extracted without signature verification first, solely to
// find the candidate principal; the full verification that follows checks
// the signature, expiry, and subject against that principal. A principal
// disabled after issuance is rejected even though its token is still
// cryptographically valid.
func (a *authUseCase) ValidateAccessToken(
	ctx context.Context,
	accessToken string,
) (authDomain.Principal, map[string]any, error) {
	principal, err := a.resolveTokenPrincipal(ctx, accessToken)
	if err != nil {
		return nil, nil, err
	}

	if !principal.IsEnabled() {
		return nil, nil, authDomain.ErrPrincipalDisabled
	}

	claims, err := a.tokenCodec.VerifyAccessToken(accessToken, principal)
	if err != nil {
		return nil, nil, err
	}

	return principal, claims, nil
}

// issuePair mints a token pair for the principal and stores the refresh
// record. The revoke-then-insert runs in one transaction so the
// single-active-token rule holds even when concurrent logins race. The
// optional extra function runs inside the same transaction.
func (a *authUseCase) issuePair(
	ctx context.Context,
	principal authDomain.Principal,
	extraClaims map[string]any,
	extra func(ctx context.Context) error,
) (*authDomain.TokenPair, error) {
	accessToken, err := a.tokenCodec.IssueAccessToken(
		principal,
		extraClaims,
		a.config.AccessTokenExpiration,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := a.tokenCodec.IssueRefreshToken(principal, a.config.RefreshTokenExpiration)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &authDomain.RefreshToken{
		ID:          uuid.Must(uuid.NewV7()),
		PrincipalID: principal.Identifier(),
		Token:       refreshToken,
		ExpiresAt:   now.Add(a.config.RefreshTokenExpiration),
		Revoked:     false,
		CreatedAt:   now,
	}

	err = a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := a.refreshRepo.RevokeAllForPrincipal(txCtx, principal.Identifier()); err != nil {
			return err
		}
		if err := a.refreshRepo.Create(txCtx, record); err != nil {
			return err
		}
		if extra != nil {
			return extra(txCtx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &authDomain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    authDomain.TokenTypeBearer,
		ExpiresIn:    int64(a.config.AccessTokenExpiration.Seconds()),
	}, nil
}

// resolveTokenPrincipal extracts the token subject without verification and
// looks up the matching principal, trying users first and falling back to
// service accounts. Usernames and service names live in separate tables, so
// an identifier resolving in both is a deployment mistake; users win.
func (a *authUseCase) resolveTokenPrincipal(
	ctx context.Context,
	token string,
) (authDomain.Principal, error) {
	subject, err := a.tokenCodec.ExtractSubject(token)
	if err != nil {
		return nil, err
	}

	user, err := a.userRepo.GetByUsername(ctx, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, userDomain.ErrUserNotFound) {
		return nil, err
	}

	account, err := a.accountReader.GetByServiceName(ctx, subject)
	if err != nil {
		if errors.Is(err, saDomain.ErrServiceAccountNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}

	return account, nil
}

// claimsForPrincipal rebuilds the extra claims embedded in access tokens
// for the given principal type.
func (a *authUseCase) claimsForPrincipal(principal authDomain.Principal) map[string]any {
	if account, ok := principal.(*saDomain.ServiceAccount); ok {
		return map[string]any{
			authDomain.ClaimRole:        authDomain.RoleService,
			authDomain.ClaimType:        authDomain.PrincipalTypeService,
			authDomain.ClaimServiceName: account.ServiceName,
			authDomain.ClaimServiceID:   account.ID.String(),
		}
	}

	claims := map[string]any{}
	if authorities := principal.Authorities(); len(authorities) > 0 {
		claims[authDomain.ClaimRole] = authorities[0]
	}
	return claims
}
