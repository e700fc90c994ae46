package service

import (
	"crypto/sha256"
	"errors"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	apperrors "github.com/allisson/authgate/internal/errors"
)

// tokenCodec implements TokenCodec using HMAC-SHA256 signed JWTs.
//
// Two distinct signing keys are derived from the configured process secret
// with HKDF-SHA256, one per token class, so a refresh token can never be
// presented as an access token even though both are HS256 JWTs.
type tokenCodec struct {
	accessKey  []byte
	refreshKey []byte
}

// deriveKey uses HKDF-SHA256 to derive a 32-byte signing key from the
// process secret. Info parameter is versioned for future algorithm changes.
func deriveKey(secret []byte, info string) ([]byte, error) {
	kdf := hkdf.New(sha256.New, secret, nil, []byte(info))

	key := make([]byte, 32)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}

	return key, nil
}

// NewTokenCodec creates a TokenCodec from the configured signing secret.
// Returns an error if the secret is shorter than 32 bytes.
func NewTokenCodec(secret []byte) (TokenCodec, error) {
	if len(secret) < 32 {
		return nil, apperrors.New("token signing secret must be at least 32 bytes")
	}

	accessKey, err := deriveKey(secret, "access-token-signing-v1")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to derive access token key")
	}

	refreshKey, err := deriveKey(secret, "refresh-token-signing-v1")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to derive refresh token key")
	}

	return &tokenCodec{
		accessKey:  accessKey,
		refreshKey: refreshKey,
	}, nil
}

// issue mints a signed token for the principal with the given claims.
func (t *tokenCodec) issue(
	principal authDomain.Principal,
	extraClaims map[string]any,
	ttl time.Duration,
	key []byte,
) (string, error) {
	now := time.Now().UTC()

	claims := jwt.MapClaims{
		"sub": principal.Identifier(),
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(ttl)),
	}
	for k, v := range extraClaims {
		claims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(key)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// IssueAccessToken mints a signed access token carrying the principal
// identifier, the extra claims, issued-at, and expiry = now+ttl.
func (t *tokenCodec) IssueAccessToken(
	principal authDomain.Principal,
	extraClaims map[string]any,
	ttl time.Duration,
) (string, error) {
	return t.issue(principal, extraClaims, ttl, t.accessKey)
}

// IssueRefreshToken mints a signed refresh token with no business claims
// beyond the principal identifier.
func (t *tokenCodec) IssueRefreshToken(principal authDomain.Principal, ttl time.Duration) (string, error) {
	return t.issue(principal, nil, ttl, t.refreshKey)
}

// verify parses and validates the token against the given key and checks
// the subject against the expected principal. All failures are recoverable
// and mapped to the domain taxonomy.
func (t *tokenCodec) verify(
	tokenString string,
	principal authDomain.Principal,
	key []byte,
) (map[string]any, error) {
	claims := jwt.MapClaims{}

	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, authDomain.ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, authDomain.ErrTokenExpired
		default:
			return nil, authDomain.ErrInvalidToken
		}
	}

	if !token.Valid {
		return nil, authDomain.ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject != principal.Identifier() {
		return nil, authDomain.ErrInvalidToken
	}

	return claims, nil
}

// VerifyAccessToken checks signature, expiry, and subject of an access token.
func (t *tokenCodec) VerifyAccessToken(
	tokenString string,
	principal authDomain.Principal,
) (map[string]any, error) {
	return t.verify(tokenString, principal, t.accessKey)
}

// VerifyRefreshToken checks signature, expiry, and subject of a refresh token.
func (t *tokenCodec) VerifyRefreshToken(
	tokenString string,
	principal authDomain.Principal,
) (map[string]any, error) {
	return t.verify(tokenString, principal, t.refreshKey)
}

// ExtractSubject parses the token WITHOUT verifying the signature and
// returns the embedded subject identifier. Callers must follow up with a
// full verification against the looked-up principal; this only identifies
// the candidate.
func (t *tokenCodec) ExtractSubject(tokenString string) (string, error) {
	claims := jwt.MapClaims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return "", authDomain.ErrMalformedToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", authDomain.ErrMalformedToken
	}

	return subject, nil
}
