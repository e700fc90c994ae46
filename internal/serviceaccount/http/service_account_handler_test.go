package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authHTTP "github.com/allisson/authgate/internal/auth/http"
	saDomain "github.com/allisson/authgate/internal/serviceaccount/domain"
	"github.com/allisson/authgate/internal/serviceaccount/http/dto"
)

// mockAPIKeyUseCase is a mock implementation of APIKeyUseCase for testing.
type mockAPIKeyUseCase struct {
	mock.Mock
}

func (m *mockAPIKeyUseCase) Generate(
	ctx context.Context,
	input *saDomain.GenerateAPIKeyInput,
) (*saDomain.GenerateAPIKeyOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*saDomain.GenerateAPIKeyOutput), args.Error(1)
}

func (m *mockAPIKeyUseCase) Validate(
	ctx context.Context,
	plainAPIKey string,
) (*saDomain.ServiceAccount, error) {
	args := m.Called(ctx, plainAPIKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*saDomain.ServiceAccount), args.Error(1)
}

func (m *mockAPIKeyUseCase) Revoke(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *mockAPIKeyUseCase) Rotate(
	ctx context.Context,
	accountID uuid.UUID,
) (*saDomain.GenerateAPIKeyOutput, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*saDomain.GenerateAPIKeyOutput), args.Error(1)
}

func (m *mockAPIKeyUseCase) Get(
	ctx context.Context,
	accountID uuid.UUID,
) (*saDomain.ServiceAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*saDomain.ServiceAccount), args.Error(1)
}

func (m *mockAPIKeyUseCase) GetByServiceName(
	ctx context.Context,
	serviceName string,
) (*saDomain.ServiceAccount, error) {
	args := m.Called(ctx, serviceName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*saDomain.ServiceAccount), args.Error(1)
}

func (m *mockAPIKeyUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*saDomain.ServiceAccount, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*saDomain.ServiceAccount), args.Error(1)
}

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestHandler(t *testing.T) (*ServiceAccountHandler, *mockAPIKeyUseCase) {
	t.Helper()

	mockUseCase := &mockAPIKeyUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewServiceAccountHandler(mockUseCase, logger)

	return handler, mockUseCase
}

// createTestContext creates a test Gin context with the given request.
func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func testAccount() *saDomain.ServiceAccount {
	return &saDomain.ServiceAccount{
		ID:          uuid.Must(uuid.NewV7()),
		ServiceName: "billing-service",
		Description: "Billing integration",
		APIKeyHash:  "$argon2id$v=19$m=65536,t=3,p=4$key-hash", //nolint:gosec // test fixture, not a real credential
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestServiceAccountHandler_GenerateHandler(t *testing.T) {
	t.Run("Success_ReturnsPlaintextKeyOnce", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		accountID := uuid.Must(uuid.NewV7())
		request := dto.GenerateAPIKeyRequest{
			ServiceName: "billing-service",
			Description: "Billing integration",
		}

		output := &saDomain.GenerateAPIKeyOutput{
			ID:          accountID,
			ServiceName: "billing-service",
			PlainAPIKey: "sk_1234567890abcdef",
		}

		mockUseCase.On("Generate", mock.Anything, mock.MatchedBy(func(input *saDomain.GenerateAPIKeyInput) bool {
			return input.ServiceName == "billing-service" &&
				input.Description == "Billing integration"
		})).Return(output, nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/service-accounts", request)

		handler.GenerateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.GenerateAPIKeyResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, accountID.String(), response.ID)
		assert.Equal(t, "billing-service", response.ServiceName)
		assert.Equal(t, "sk_1234567890abcdef", response.APIKey)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_MissingServiceName", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		request := dto.GenerateAPIKeyRequest{
			Description: "Billing integration",
		}

		c, w := createTestContext(http.MethodPost, "/api/v1/service-accounts", request)

		handler.GenerateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Generate")
	})

	t.Run("Error_ServiceNameTaken", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		request := dto.GenerateAPIKeyRequest{
			ServiceName: "billing-service",
		}

		mockUseCase.On("Generate", mock.Anything, mock.Anything).
			Return(nil, saDomain.ErrServiceNameExists).Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/service-accounts", request)

		handler.GenerateHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		mockUseCase.AssertExpectations(t)
	})
}

func TestServiceAccountHandler_RevokeHandler(t *testing.T) {
	t.Run("Success_RevokesAccount", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		accountID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Revoke", mock.Anything, accountID).Return(nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/service-accounts/"+accountID.String()+"/revoke", nil)
		c.Params = gin.Params{{Key: "id", Value: accountID.String()}}

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidUUID", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/api/v1/service-accounts/not-a-uuid/revoke", nil)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Revoke")
	})

	t.Run("Error_AlreadyInactive", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		accountID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Revoke", mock.Anything, accountID).
			Return(saDomain.ErrServiceAccountInactive).Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/service-accounts/"+accountID.String()+"/revoke", nil)
		c.Params = gin.Params{{Key: "id", Value: accountID.String()}}

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		accountID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Revoke", mock.Anything, accountID).
			Return(saDomain.ErrServiceAccountNotFound).Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/service-accounts/"+accountID.String()+"/revoke", nil)
		c.Params = gin.Params{{Key: "id", Value: accountID.String()}}

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockUseCase.AssertExpectations(t)
	})
}

func TestServiceAccountHandler_RotateHandler(t *testing.T) {
	t.Run("Success_ReturnsNewKey", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		accountID := uuid.Must(uuid.NewV7())
		output := &saDomain.GenerateAPIKeyOutput{
			ID:          accountID,
			ServiceName: "billing-service",
			PlainAPIKey: "sk_new_key",
		}

		mockUseCase.On("Rotate", mock.Anything, accountID).Return(output, nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/service-accounts/"+accountID.String()+"/rotate", nil)
		c.Params = gin.Params{{Key: "id", Value: accountID.String()}}

		handler.RotateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.GenerateAPIKeyResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "sk_new_key", response.APIKey)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidUUID", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/api/v1/service-accounts/not-a-uuid/rotate", nil)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		handler.RotateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Rotate")
	})
}

func TestServiceAccountHandler_GetHandler(t *testing.T) {
	t.Run("Success_ReturnsAccountWithoutDigest", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		account := testAccount()

		mockUseCase.On("Get", mock.Anything, account.ID).Return(account, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/service-accounts/"+account.ID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: account.ID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ServiceAccountResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, account.ID.String(), response.ID)
		assert.Equal(t, "billing-service", response.ServiceName)
		assert.True(t, response.Active)

		// The key digest never leaves the server
		assert.NotContains(t, w.Body.String(), "argon2id")

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		accountID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Get", mock.Anything, accountID).
			Return(nil, saDomain.ErrServiceAccountNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/service-accounts/"+accountID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: accountID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockUseCase.AssertExpectations(t)
	})
}

func TestServiceAccountHandler_ListHandler(t *testing.T) {
	t.Run("Success_ReturnsAccounts", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		account := testAccount()

		mockUseCase.On("List", mock.Anything, 0, 50).
			Return([]*saDomain.ServiceAccount{account}, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/service-accounts", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListServiceAccountsResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Len(t, response.Data, 1)
		assert.Equal(t, "billing-service", response.Data[0].ServiceName)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_EmptyList", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("List", mock.Anything, 0, 50).
			Return([]*saDomain.ServiceAccount{}, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/service-accounts", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data": []}`, w.Body.String())

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/api/v1/service-accounts?limit=500", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "List")
	})
}

func TestServiceAccountHandler_MeHandler(t *testing.T) {
	t.Run("Success_ReturnsCallingAccount", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		account := testAccount()

		mockUseCase.On("GetByServiceName", mock.Anything, account.ServiceName).
			Return(account, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/service-accounts/me", nil)
		c.Request = c.Request.WithContext(authHTTP.WithPrincipal(c.Request.Context(), account))

		handler.MeHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ServiceAccountResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, account.ID.String(), response.ID)
		assert.Equal(t, "billing-service", response.ServiceName)
		assert.NotContains(t, w.Body.String(), "argon2id")

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NoServiceIdentity", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/api/v1/service-accounts/me", nil)

		handler.MeHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "GetByServiceName")
	})
}
