package app

import (
	"fmt"

	saCache "github.com/allisson/authgate/internal/serviceaccount/cache"
	saHTTP "github.com/allisson/authgate/internal/serviceaccount/http"
	saRepository "github.com/allisson/authgate/internal/serviceaccount/repository"
	saUseCase "github.com/allisson/authgate/internal/serviceaccount/usecase"
)

// ServiceAccountRepository returns the service account repository based on database driver.
func (c *Container) ServiceAccountRepository() (saUseCase.ServiceAccountRepository, error) {
	var err error
	c.accountRepoInit.Do(func() {
		c.accountRepo, err = c.initServiceAccountRepository()
		if err != nil {
			c.initErrors["serviceAccountRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["serviceAccountRepo"]; exists {
		return nil, storedErr
	}
	return c.accountRepo, nil
}

// APIKeyCache returns the process-local API key validation cache.
func (c *Container) APIKeyCache() *saCache.APIKeyCache {
	c.apiKeyCacheInit.Do(func() {
		c.apiKeyCache = saCache.NewAPIKeyCache(c.config.APIKeyCacheTTL)
	})
	return c.apiKeyCache
}

// APIKeyUseCase returns the API key use case.
func (c *Container) APIKeyUseCase() (saUseCase.APIKeyUseCase, error) {
	var err error
	c.apiKeyUCInit.Do(func() {
		c.apiKeyUC, err = c.initAPIKeyUseCase()
		if err != nil {
			c.initErrors["apiKeyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiKeyUseCase"]; exists {
		return nil, storedErr
	}
	return c.apiKeyUC, nil
}

// ServiceAccountHandler returns the HTTP handler for service account operations.
func (c *Container) ServiceAccountHandler() (*saHTTP.ServiceAccountHandler, error) {
	var err error
	c.accountHandlerInit.Do(func() {
		c.accountHandler, err = c.initServiceAccountHandler()
		if err != nil {
			c.initErrors["serviceAccountHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["serviceAccountHandler"]; exists {
		return nil, storedErr
	}
	return c.accountHandler, nil
}

// initServiceAccountRepository creates the service account repository based on the database driver.
func (c *Container) initServiceAccountRepository() (saUseCase.ServiceAccountRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for service account repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return saRepository.NewPostgreSQLServiceAccountRepository(db), nil
	case "mysql":
		return saRepository.NewMySQLServiceAccountRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAPIKeyUseCase creates the API key use case with all its dependencies.
func (c *Container) initAPIKeyUseCase() (saUseCase.APIKeyUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for api key use case: %w", err)
	}

	accountRepo, err := c.ServiceAccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get service account repository for api key use case: %w", err)
	}

	baseUseCase := saUseCase.NewAPIKeyUseCase(
		txManager,
		accountRepo,
		c.SecretService(),
		c.APIKeyCache(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for api key use case: %w", err)
		}
		return saUseCase.NewAPIKeyUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initServiceAccountHandler creates the service account HTTP handler with all its dependencies.
func (c *Container) initServiceAccountHandler() (*saHTTP.ServiceAccountHandler, error) {
	apiKeyUC, err := c.APIKeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key use case for service account handler: %w", err)
	}

	logger := c.Logger()

	return saHTTP.NewServiceAccountHandler(apiKeyUC, logger), nil
}
