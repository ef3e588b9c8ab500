package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/pet-house-api/config"
	"github.com/upb/pet-house-api/internal/auth"
	"github.com/upb/pet-house-api/repositories/memory"
	"go.uber.org/zap/zaptest"
)

func TestNewDependencies(t *testing.T) {
	t.Run("memory driver wires every component", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig()
		logger := zaptest.NewLogger(t)

		deps, err := NewDependencies(ctx, cfg, logger)
		require.NoError(t, err)
		require.NotNil(t, deps)

		assert.NotNil(t, deps.Store)
		assert.NotNil(t, deps.Tokens)
		assert.NotNil(t, deps.Resolver)
		assert.NotNil(t, deps.AuthMiddleware)
		assert.NotNil(t, deps.AuthService)
		assert.NotNil(t, deps.Users)
		assert.NotNil(t, deps.Pets)
		assert.NotNil(t, deps.Campaigns)
		assert.NotNil(t, deps.Adoptions)
		assert.NotNil(t, deps.Catalog)
		assert.Equal(t, "Campaign", deps.Campaigns.Spec().Name)

		assert.NoError(t, deps.Close(ctx))
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := testConfig()
		cfg.Store.Driver = "cassandra"

		deps, err := NewDependencies(context.Background(), cfg, zaptest.NewLogger(t))
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "failed to initialize store")
	})

	t.Run("postgres connection failure", func(t *testing.T) {
		cfg := testConfig()
		cfg.Store.Driver = config.StoreDriverPostgres
		cfg.Store.Postgres = config.DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     1,
			User:     "pethouse",
			Database: "pethouse",
			SSLMode:  "disable",
		}

		deps, err := NewDependencies(context.Background(), cfg, zaptest.NewLogger(t))
		assert.Error(t, err)
		assert.Nil(t, deps)
	})
}

func TestNewDependenciesWithStore(t *testing.T) {
	t.Run("tokens issued by the wiring verify through the middleware verifier", func(t *testing.T) {
		deps, err := NewDependenciesWithStore(testConfig(), memory.NewStore(), zaptest.NewLogger(t))
		require.NoError(t, err)

		signed, err := deps.AuthService.IssueToken(context.Background(), "ana@pethouse.test")
		require.NoError(t, err)

		identity, err := deps.Tokens.Verify(context.Background(), signed)
		require.NoError(t, err)
		assert.Equal(t, auth.Identity{Email: "ana@pethouse.test"}, *identity)
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.TokenSecret = ""

		deps, err := NewDependenciesWithStore(cfg, memory.NewStore(), zaptest.NewLogger(t))
		assert.Error(t, err)
		assert.Nil(t, deps)
		assert.Contains(t, err.Error(), "token service")
	})
}

// Test helpers

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "localhost",
			Port:            5000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: config.StoreConfig{Driver: config.StoreDriverMemory},
		Auth: config.AuthConfig{
			TokenSecret: "test-secret-that-is-long-enough-123456",
		},
		Observability: config.ObservabilityConfig{
			LogLevel:  "debug",
			LogFormat: "json",
		},
	}
}
