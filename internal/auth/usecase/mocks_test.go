package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	saDomain "github.com/allisson/authgate/internal/serviceaccount/domain"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// mockTxManager runs the transactional function directly against the
// provided context so repository mocks observe the calls.
type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// mockRefreshTokenRepository is a mock implementation of RefreshTokenRepository for testing.
type mockRefreshTokenRepository struct {
	mock.Mock
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *authDomain.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockRefreshTokenRepository) GetByToken(
	ctx context.Context,
	tokenString string,
) (*authDomain.RefreshToken, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.RefreshToken), args.Error(1)
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, tokenString string) error {
	args := m.Called(ctx, tokenString)
	return args.Error(0)
}

func (m *mockRefreshTokenRepository) RevokeAllForPrincipal(ctx context.Context, principalID string) error {
	args := m.Called(ctx, principalID)
	return args.Error(0)
}

func (m *mockRefreshTokenRepository) DeleteExpired(
	ctx context.Context,
	olderThan time.Time,
) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// mockUserRepository is a mock implementation of UserRepository for testing.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*userDomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// mockServiceAccountReader is a mock implementation of ServiceAccountReader for testing.
type mockServiceAccountReader struct {
	mock.Mock
}

func (m *mockServiceAccountReader) GetByServiceName(
	ctx context.Context,
	serviceName string,
) (*saDomain.ServiceAccount, error) {
	args := m.Called(ctx, serviceName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*saDomain.ServiceAccount), args.Error(1)
}

func (m *mockServiceAccountReader) UpdateLastUsed(
	ctx context.Context,
	accountID uuid.UUID,
	usedAt time.Time,
) error {
	args := m.Called(ctx, accountID, usedAt)
	return args.Error(0)
}

// mockSecretService is a mock implementation of SecretService for testing.
type mockSecretService struct {
	mock.Mock
}

func (m *mockSecretService) GenerateSecret() (plainSecret string, hashedSecret string, error error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockSecretService) HashSecret(plainSecret string) (hashedSecret string, error error) {
	args := m.Called(plainSecret)
	return args.String(0), args.Error(1)
}

func (m *mockSecretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	args := m.Called(plainSecret, hashedSecret)
	return args.Bool(0)
}

// mockTokenCodec is a mock implementation of TokenCodec for testing.
type mockTokenCodec struct {
	mock.Mock
}

func (m *mockTokenCodec) IssueAccessToken(
	principal authDomain.Principal,
	extraClaims map[string]any,
	ttl time.Duration,
) (string, error) {
	args := m.Called(principal, extraClaims, ttl)
	return args.String(0), args.Error(1)
}

func (m *mockTokenCodec) IssueRefreshToken(
	principal authDomain.Principal,
	ttl time.Duration,
) (string, error) {
	args := m.Called(principal, ttl)
	return args.String(0), args.Error(1)
}

func (m *mockTokenCodec) VerifyAccessToken(
	token string,
	principal authDomain.Principal,
) (map[string]any, error) {
	args := m.Called(token, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *mockTokenCodec) VerifyRefreshToken(
	token string,
	principal authDomain.Principal,
) (map[string]any, error) {
	args := m.Called(token, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *mockTokenCodec) ExtractSubject(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}
