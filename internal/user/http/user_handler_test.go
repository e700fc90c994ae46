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

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	authHTTP "github.com/allisson/authgate/internal/auth/http"
	userDomain "github.com/allisson/authgate/internal/user/domain"
	"github.com/allisson/authgate/internal/user/http/dto"
)

// mockUserUseCase is a mock implementation of UserUseCase for testing.
type mockUserUseCase struct {
	mock.Mock
}

func (m *mockUserUseCase) Register(
	ctx context.Context,
	input *userDomain.RegisterUserInput,
) (*userDomain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) GetByUsername(
	ctx context.Context,
	username string,
) (*userDomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupUserTestHandler(t *testing.T) (*UserHandler, *mockUserUseCase) {
	t.Helper()

	mockUseCase := &mockUserUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewUserHandler(mockUseCase, logger)

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

func testUser() *userDomain.User {
	return &userDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "$argon2id$v=19$m=65536,t=3,p=4$test-hash", //nolint:gosec // test fixture, not a real credential
		Role:      authDomain.RoleUser,
		Enabled:   true,
		CreatedAt: time.Now().UTC(),
	}
}

func TestUserHandler_RegisterHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupUserTestHandler(t)

		request := dto.RegisterRequest{
			Username:  "alice",
			Email:     "alice@example.com",
			Password:  "Sup3rSecret",
			FirstName: "Alice",
			LastName:  "Example",
		}

		user := testUser()
		user.FirstName = "Alice"
		user.LastName = "Example"

		mockUseCase.On("Register", mock.Anything, mock.MatchedBy(func(input *userDomain.RegisterUserInput) bool {
			return input.Username == "alice" &&
				input.Email == "alice@example.com" &&
				input.Password == "Sup3rSecret"
		})).Return(user, nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/auth/register", request)

		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.UserResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "alice", response.Username)
		assert.Equal(t, authDomain.RoleUser, response.Role)
		assert.True(t, response.Enabled)

		// The password digest never leaves the server
		assert.NotContains(t, w.Body.String(), "argon2id")

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupUserTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/api/v1/auth/register", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("invalid json")))

		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_MissingFields", func(t *testing.T) {
		handler, mockUseCase := setupUserTestHandler(t)

		request := dto.RegisterRequest{
			Username: "alice",
		}

		c, w := createTestContext(http.MethodPost, "/api/v1/auth/register", request)

		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Register")
	})

	t.Run("Error_UsernameTaken", func(t *testing.T) {
		handler, mockUseCase := setupUserTestHandler(t)

		request := dto.RegisterRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "Sup3rSecret",
		}

		mockUseCase.On("Register", mock.Anything, mock.Anything).
			Return(nil, userDomain.ErrUsernameExists).Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/auth/register", request)

		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		mockUseCase.AssertExpectations(t)
	})
}

func TestUserHandler_MeHandler(t *testing.T) {
	t.Run("Success_ReturnsAuthenticatedUser", func(t *testing.T) {
		handler, mockUseCase := setupUserTestHandler(t)
		user := testUser()

		mockUseCase.On("GetByUsername", mock.Anything, "alice").Return(user, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/users/me", nil)
		ctx := authHTTP.WithPrincipal(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		handler.MeHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.UserResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, user.ID.String(), response.ID)
		assert.Equal(t, "alice", response.Username)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NoPrincipalInContext", func(t *testing.T) {
		handler, mockUseCase := setupUserTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/api/v1/users/me", nil)

		handler.MeHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "GetByUsername")
	})
}
