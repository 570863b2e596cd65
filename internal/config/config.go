// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront client
type Config struct {
	App     AppConfig
	API     APIConfig
	Storage StorageConfig
	Signup  SignupConfig
	Logging LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// APIConfig contains backend endpoint configuration.
// BaseURL plus the two context paths are combined into the general
// API URL and the auth service URL at startup.
type APIConfig struct {
	BaseURL         string
	APIContextPath  string
	AuthContextPath string
	RequestTimeout  time.Duration
}

// StorageConfig contains local persistent storage configuration
type StorageConfig struct {
	Dir         string
	TokenKey    string
	UserDataKey string
}

// SignupConfig contains email-verification flow configuration
type SignupConfig struct {
	PollInterval   time.Duration
	ResendCooldown time.Duration
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront Client"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		API: APIConfig{
			BaseURL:         getEnv("API_BASE_URL", "http://localhost:8080"),
			APIContextPath:  getEnv("API_CONTEXT_PATH", "/api"),
			AuthContextPath: getEnv("AUTH_CONTEXT_PATH", "/auth"),
			RequestTimeout:  getEnvAsDuration("API_REQUEST_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Dir:         getEnv("STORAGE_DIR", defaultStorageDir()),
			TokenKey:    getEnv("STORAGE_TOKEN_KEY", "authToken"),
			UserDataKey: getEnv("STORAGE_USER_DATA_KEY", "userData"),
		},
		Signup: SignupConfig{
			PollInterval:   getEnvAsDuration("SIGNUP_POLL_INTERVAL", 3*time.Second),
			ResendCooldown: getEnvAsDuration("SIGNUP_RESEND_COOLDOWN", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL")
	}
	if !strings.HasPrefix(c.API.APIContextPath, "/") {
		return fmt.Errorf("API_CONTEXT_PATH must start with /")
	}
	if !strings.HasPrefix(c.API.AuthContextPath, "/") {
		return fmt.Errorf("AUTH_CONTEXT_PATH must start with /")
	}
	if c.Signup.PollInterval <= 0 {
		return fmt.Errorf("SIGNUP_POLL_INTERVAL must be positive")
	}
	if c.Signup.ResendCooldown <= 0 {
		return fmt.Errorf("SIGNUP_RESEND_COOLDOWN must be positive")
	}
	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// APIURL returns the absolute base URL of the general-purpose API
func (c *Config) APIURL() string {
	return strings.TrimRight(c.API.BaseURL, "/") + c.API.APIContextPath
}

// AuthURL returns the absolute base URL of the authentication service
func (c *Config) AuthURL() string {
	return strings.TrimRight(c.API.BaseURL, "/") + c.API.AuthContextPath
}

func defaultStorageDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(base, "storefront")
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
