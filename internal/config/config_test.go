package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "signup_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("SIGNUP_EXPOSE_ERRORS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	require.Equal(t, "signup_test", cfg.MongoDB.Database)
	require.Equal(t, "flask", cfg.MongoDB.Collection)
	require.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	require.Equal(t, 5, cfg.MongoDB.ConnectAttempts)
	require.Equal(t, "localhost", cfg.Redis.Host)
	require.Equal(t, "6379", cfg.Redis.Port)
	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, 2.5, cfg.RateLimit.RPS)
	require.True(t, cfg.Signup.ExposeErrors)
	require.Equal(t, "5000", cfg.Server.Port)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("SERVER_ENVIRONMENT", "development")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Empty(t, cfg.MongoDB.URI)
	require.Equal(t, "Vercel", cfg.MongoDB.Database)
	require.False(t, cfg.Signup.ExposeErrors)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfig_ProductionRequiresMongo(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("SERVER_ENVIRONMENT", "Production")

	_, err := LoadConfig()
	require.ErrorIs(t, err, ErrMissingMongoURI)
}
