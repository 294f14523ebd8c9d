package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "stackmap", cfg.Auth.JWTIssuer)
	assert.Equal(t, "stackmap", cfg.AWS.TableName)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 120, cfg.RateLimit.RequestsPerMinute)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ENVIRONMENT", EnvStaging)
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "30s")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("SLACK_CLIENT_ID", "slack-client")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvStaging, cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "slack-client", cfg.Slack.ClientID)
}

func TestLoadOverlayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	overlay := `
environment: staging
server:
  port: 9999
rate_limit:
  enabled: true
  requests_per_minute: 30
`
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0o600))

	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvStaging, cfg.Environment)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	// Values the overlay does not mention keep their env defaults.
	assert.Equal(t, "stackmap", cfg.AWS.TableName)
}

func TestLoadOverlayFileMissing(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("production requires a JWT secret", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("ENVIRONMENT", EnvProduction)
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("production with secret loads", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("ENVIRONMENT", EnvProduction)
		t.Setenv("JWT_SECRET", "a-real-secret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("invalid port rejected", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("ENVIRONMENT", "")
		t.Setenv("PORT", "70000")

		_, err := Load()
		assert.ErrorContains(t, err, "port")
	})

	t.Run("rate limiting needs a positive budget", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("ENVIRONMENT", "")
		t.Setenv("PORT", "")
		t.Setenv("RATE_LIMIT_ENABLED", "true")
		t.Setenv("RATE_LIMIT_RPM", "0")

		_, err := Load()
		assert.ErrorContains(t, err, "rate limit")
	})
}
