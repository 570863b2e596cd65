// internal/config/config_test.go
package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, "/api", cfg.API.APIContextPath)
	assert.Equal(t, "/auth", cfg.API.AuthContextPath)
	assert.Equal(t, 10*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 3*time.Second, cfg.Signup.PollInterval)
	assert.Equal(t, 60*time.Second, cfg.Signup.ResendCooldown)
	assert.Equal(t, "authToken", cfg.Storage.TokenKey)
	assert.Equal(t, "userData", cfg.Storage.UserDataKey)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://shop.example.com")
	t.Setenv("API_REQUEST_TIMEOUT", "30s")
	t.Setenv("SIGNUP_POLL_INTERVAL", "5s")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.Signup.PollInterval)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.IsProduction())
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "shop.example.com")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")
}

func TestLoadRejectsBadContextPath(t *testing.T) {
	t.Setenv("API_CONTEXT_PATH", "api")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_CONTEXT_PATH")
}

func TestURLComposition(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			BaseURL:         "https://shop.example.com/",
			APIContextPath:  "/api",
			AuthContextPath: "/auth",
		},
	}

	assert.Equal(t, "https://shop.example.com/api", cfg.APIURL())
	assert.Equal(t, "https://shop.example.com/auth", cfg.AuthURL())
	assert.False(t, strings.Contains(cfg.APIURL(), "//api"))
}

func TestBadDurationFallsBackToDefault(t *testing.T) {
	t.Setenv("API_REQUEST_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.API.RequestTimeout)
}
