package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Empty(t, cfg.DBConnectionString)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5, cfg.DBMaxIdleConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Empty(t, cfg.EncryptionSecret)
				assert.Equal(t, "https://api.x.ai", cfg.UpstreamBaseURL)
				assert.Equal(t, 60*time.Second, cfg.UpstreamTimeout)
				assert.True(t, cfg.CORSEnabled)
				assert.Equal(t, "xchat", cfg.MetricsNamespace)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom upstream configuration",
			envVars: map[string]string{
				"UPSTREAM_BASE_URL":        "http://localhost:9999",
				"UPSTREAM_TIMEOUT_SECONDS": "5",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://localhost:9999", cfg.UpstreamBaseURL)
				assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
			},
		},
		{
			name: "load custom database configuration",
			envVars: map[string]string{
				"DB_DRIVER":               "mysql",
				"DATABASE_URL":            "user:password@tcp(localhost:3306)/testdb",
				"DB_MAX_OPEN_CONNECTIONS": "50",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mysql", cfg.DBDriver)
				assert.Equal(t, "user:password@tcp(localhost:3306)/testdb", cfg.DBConnectionString)
				assert.Equal(t, 50, cfg.DBMaxOpenConnections)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg := Load()
			tt.validate(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		cfg := &Config{EncryptionSecret: "secret"}
		assert.EqualError(t, cfg.Validate(), "DATABASE_URL is required")
	})

	t.Run("missing encryption secret", func(t *testing.T) {
		cfg := &Config{DBConnectionString: "postgres://localhost/db"}
		assert.EqualError(t, cfg.Validate(), "ENCRYPTION_SECRET is required")
	})

	t.Run("valid configuration", func(t *testing.T) {
		cfg := &Config{
			DBConnectionString: "postgres://localhost/db",
			EncryptionSecret:   "secret",
		}
		assert.NoError(t, cfg.Validate())
	})
}

func TestGetGinMode(t *testing.T) {
	assert.Equal(t, "debug", (&Config{LogLevel: "debug"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "info"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "unknown"}).GetGinMode())
}
