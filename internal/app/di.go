// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/xchat/internal/config"
	"github.com/allisson/xchat/internal/database"
	"github.com/allisson/xchat/internal/http"
	keysHTTP "github.com/allisson/xchat/internal/keys/http"
	keysRepository "github.com/allisson/xchat/internal/keys/repository"
	keysService "github.com/allisson/xchat/internal/keys/service"
	keysUseCase "github.com/allisson/xchat/internal/keys/usecase"
	"github.com/allisson/xchat/internal/metrics"
	proxyHTTP "github.com/allisson/xchat/internal/proxy/http"
)

// Container holds all application dependencies and provides methods to
// access them. Components are created lazily on first access.
type Container struct {
	config *config.Config

	logger *slog.Logger
	db     *sql.DB

	cipher        keysService.Cipher
	apiKeyRepo    keysUseCase.APIKeyRepository
	apiKeyUseCase keysUseCase.APIKeyUseCase

	keyHandler   *keysHTTP.KeyHandler
	proxyHandler *proxyHTTP.ProxyHandler

	metricsProvider *metrics.Provider
	httpServer      *http.Server
	metricsServer   *http.MetricsServer

	mu                sync.Mutex
	loggerInit        sync.Once
	dbInit            sync.Once
	cipherInit        sync.Once
	apiKeyRepoInit    sync.Once
	apiKeyUseCaseInit sync.Once
	keyHandlerInit    sync.Once
	proxyHandlerInit  sync.Once
	metricsProvInit   sync.Once
	httpServerInit    sync.Once
	metricsServerInit sync.Once
	initErrors        map[string]error
}

// NewContainer creates a new dependency injection container with the
// provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = database.Connect(database.Config{
			Driver:             c.config.DBDriver,
			ConnectionString:   c.config.DBConnectionString,
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// Cipher returns the credential cipher. The encryption key is derived
// from the operator secret once, at first access.
func (c *Container) Cipher() (keysService.Cipher, error) {
	var err error
	c.cipherInit.Do(func() {
		var key []byte
		key, err = keysService.DeriveKey(c.config.EncryptionSecret)
		if err != nil {
			c.initErrors["cipher"] = err
			return
		}
		c.cipher, err = keysService.NewEnvelopeCipher(key)
		if err != nil {
			c.initErrors["cipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cipher"]; exists {
		return nil, storedErr
	}
	return c.cipher, nil
}

// APIKeyRepository returns the credential repository for the configured
// database driver.
func (c *Container) APIKeyRepository() (keysUseCase.APIKeyRepository, error) {
	var err error
	c.apiKeyRepoInit.Do(func() {
		var db *sql.DB
		db, err = c.DB()
		if err != nil {
			c.initErrors["apiKeyRepo"] = err
			return
		}

		switch database.NormalizeDriver(c.config.DBDriver) {
		case database.DriverMySQL:
			c.apiKeyRepo = keysRepository.NewMySQLAPIKeyRepository(db)
		default:
			c.apiKeyRepo = keysRepository.NewPostgreSQLAPIKeyRepository(db)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiKeyRepo"]; exists {
		return nil, storedErr
	}
	return c.apiKeyRepo, nil
}

// APIKeyUseCase returns the credential use case instance.
func (c *Container) APIKeyUseCase() (keysUseCase.APIKeyUseCase, error) {
	var err error
	c.apiKeyUseCaseInit.Do(func() {
		var repo keysUseCase.APIKeyRepository
		repo, err = c.APIKeyRepository()
		if err != nil {
			c.initErrors["apiKeyUseCase"] = err
			return
		}

		var cipher keysService.Cipher
		cipher, err = c.Cipher()
		if err != nil {
			c.initErrors["apiKeyUseCase"] = err
			return
		}

		c.apiKeyUseCase = keysUseCase.NewAPIKeyUseCase(repo, cipher, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiKeyUseCase"]; exists {
		return nil, storedErr
	}
	return c.apiKeyUseCase, nil
}

// KeyHandler returns the credential HTTP handler.
func (c *Container) KeyHandler() (*keysHTTP.KeyHandler, error) {
	var err error
	c.keyHandlerInit.Do(func() {
		var useCase keysUseCase.APIKeyUseCase
		useCase, err = c.APIKeyUseCase()
		if err != nil {
			c.initErrors["keyHandler"] = err
			return
		}
		c.keyHandler = keysHTTP.NewKeyHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyHandler"]; exists {
		return nil, storedErr
	}
	return c.keyHandler, nil
}

// ProxyHandler returns the upstream proxy HTTP handler.
func (c *Container) ProxyHandler() *proxyHTTP.ProxyHandler {
	c.proxyHandlerInit.Do(func() {
		c.proxyHandler = proxyHTTP.NewProxyHandler(c.config, c.Logger())
	})
	return c.proxyHandler
}

// MetricsProvider returns the metrics provider, or nil when metrics are
// disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProvInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// HTTPServer returns the API HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		var keyHandler *keysHTTP.KeyHandler
		keyHandler, err = c.KeyHandler()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}

		var metricsProvider *metrics.Provider
		metricsProvider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}

		c.httpServer = http.NewServer(c.config, keyHandler, c.ProxyHandler(), metricsProvider, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server instance, or nil when
// metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		var metricsProvider *metrics.Provider
		metricsProvider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if metricsProvider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), metricsProvider)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates a structured logger based on the configured level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}
