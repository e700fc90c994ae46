package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	saDomain "github.com/allisson/authgate/internal/serviceaccount/domain"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

func testPrincipal() *userDomain.User {
	return &userDomain.User{
		ID:       uuid.Must(uuid.NewV7()),
		Username: "alice",
		Role:     authDomain.RoleUser,
		Enabled:  true,
	}
}

func TestAuthenticationMiddleware_Success(t *testing.T) {
	mockAuthUC := &mockAuthUseCase{}
	logger := createTestLogger()

	user := testPrincipal()
	claims := map[string]any{authDomain.ClaimRole: authDomain.RoleUser}

	mockAuthUC.On("ValidateAccessToken", mock.Anything, "valid-token").
		Return(user, claims, nil).Once()

	router := gin.New()
	router.Use(AuthenticationMiddleware(mockAuthUC, logger))
	router.GET("/test", func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		require.True(t, ok, "principal should be in context")
		assert.Equal(t, "alice", principal.Identifier())

		retrievedClaims, ok := GetClaims(c.Request.Context())
		require.True(t, ok, "claims should be in context")
		assert.Equal(t, authDomain.RoleUser, retrievedClaims[authDomain.ClaimRole])

		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockAuthUC.AssertExpectations(t)
}

func TestAuthenticationMiddleware_Success_CaseInsensitiveBearer(t *testing.T) {
	testCases := []struct {
		name   string
		prefix string
	}{
		{"lowercase_bearer", "bearer "},
		{"uppercase_BEARER", "BEARER "},
		{"mixedcase_BeArEr", "BeArEr "},
		{"standard_Bearer", "Bearer "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockAuthUC := &mockAuthUseCase{}
			logger := createTestLogger()

			mockAuthUC.On("ValidateAccessToken", mock.Anything, "valid-token").
				Return(testPrincipal(), map[string]any{}, nil).Once()

			router := gin.New()
			router.Use(AuthenticationMiddleware(mockAuthUC, logger))
			router.GET("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "success"})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", tc.prefix+"valid-token")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			mockAuthUC.AssertExpectations(t)
		})
	}
}

func TestAuthenticationMiddleware_Error_MissingAuthorizationHeader(t *testing.T) {
	mockAuthUC := &mockAuthUseCase{}
	logger := createTestLogger()

	router := gin.New()
	router.Use(AuthenticationMiddleware(mockAuthUC, logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockAuthUC.AssertNotCalled(t, "ValidateAccessToken")
}

func TestAuthenticationMiddleware_Error_MalformedAuthorizationHeader(t *testing.T) {
	testCases := []struct {
		name   string
		header string
	}{
		{"no_bearer_prefix", "valid-token"},
		{"wrong_scheme", "Basic dXNlcjpwYXNz"},
		{"empty_token", "Bearer "},
		{"prefix_only", "Bearer"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockAuthUC := &mockAuthUseCase{}
			logger := createTestLogger()

			router := gin.New()
			router.Use(AuthenticationMiddleware(mockAuthUC, logger))
			router.GET("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "success"})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", tc.header)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			mockAuthUC.AssertNotCalled(t, "ValidateAccessToken")
		})
	}
}

func TestAuthenticationMiddleware_Error_InvalidToken(t *testing.T) {
	mockAuthUC := &mockAuthUseCase{}
	logger := createTestLogger()

	mockAuthUC.On("ValidateAccessToken", mock.Anything, "bad-token").
		Return(nil, nil, authDomain.ErrInvalidToken).Once()

	router := gin.New()
	router.Use(AuthenticationMiddleware(mockAuthUC, logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockAuthUC.AssertExpectations(t)
}

func TestAuthenticationMiddleware_Error_DisabledPrincipal(t *testing.T) {
	mockAuthUC := &mockAuthUseCase{}
	logger := createTestLogger()

	mockAuthUC.On("ValidateAccessToken", mock.Anything, "valid-token").
		Return(nil, nil, authDomain.ErrPrincipalDisabled).Once()

	router := gin.New()
	router.Use(AuthenticationMiddleware(mockAuthUC, logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockAuthUC.AssertExpectations(t)
}

func TestAPIKeyMiddleware_Success(t *testing.T) {
	mockValidator := &mockAPIKeyValidator{}
	logger := createTestLogger()

	account := &saDomain.ServiceAccount{
		ID:          uuid.Must(uuid.NewV7()),
		ServiceName: "billing-service",
		Active:      true,
	}

	mockValidator.On("Validate", mock.Anything, "sk_valid").
		Return(account, nil).Once()

	router := gin.New()
	router.Use(APIKeyMiddleware(mockValidator, logger))
	router.GET("/test", func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		require.True(t, ok, "principal should be in context")
		assert.Equal(t, "billing-service", principal.Identifier())

		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-API-Key", "sk_valid")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockValidator.AssertExpectations(t)
}

func TestAPIKeyMiddleware_AbsentHeaderContinuesWithoutIdentity(t *testing.T) {
	mockValidator := &mockAPIKeyValidator{}
	logger := createTestLogger()

	router := gin.New()
	router.Use(APIKeyMiddleware(mockValidator, logger))
	router.GET("/test", func(c *gin.Context) {
		_, ok := GetPrincipal(c.Request.Context())
		assert.False(t, ok, "no principal should be in context")

		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	// Absent key means no service identity, not a rejected request
	assert.Equal(t, http.StatusOK, w.Code)
	mockValidator.AssertNotCalled(t, "Validate")
}

func TestAPIKeyMiddleware_Error_InvalidKey(t *testing.T) {
	mockValidator := &mockAPIKeyValidator{}
	logger := createTestLogger()

	mockValidator.On("Validate", mock.Anything, "sk_revoked").
		Return(nil, saDomain.ErrInvalidAPIKey).Once()

	router := gin.New()
	router.Use(APIKeyMiddleware(mockValidator, logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-API-Key", "sk_revoked")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockValidator.AssertExpectations(t)
}

func TestRequireRoleMiddleware_Success(t *testing.T) {
	logger := createTestLogger()

	admin := testPrincipal()
	admin.Role = authDomain.RoleAdmin

	router := gin.New()
	router.Use(func(c *gin.Context) {
		ctx := WithPrincipal(c.Request.Context(), admin)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	router.Use(RequireRoleMiddleware(authDomain.RoleAdmin, logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleMiddleware_Error_NoPrincipal(t *testing.T) {
	logger := createTestLogger()

	router := gin.New()
	router.Use(RequireRoleMiddleware(authDomain.RoleAdmin, logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleMiddleware_Error_InsufficientRole(t *testing.T) {
	logger := createTestLogger()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		ctx := WithPrincipal(c.Request.Context(), testPrincipal())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	router.Use(RequireRoleMiddleware(authDomain.RoleAdmin, logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
