// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Cache backend selection for the single-slot post cache.
const (
	CacheBackendFile   = "file"
	CacheBackendS3     = "s3"
	CacheBackendMemory = "memory"
)

// Config holds application configuration
type Config struct {
	DataDir       string // Base directory for the cache blob and client data db
	Port          int
	LogLevel      string
	DevMode       bool
	DefaultHandle string // Handle used by the cached-posts endpoint

	// Upstream credentials and endpoints. Credentials come only from the
	// environment; an absent credential disables the dependent feature.
	TwitterBearerToken string
	TwitterBaseURL     string
	GeminiAPIKey       string
	GeminiModel        string
	CoinGeckoBaseURL   string

	// Failure substitution policy for the post fetcher: when true a single
	// placeholder post is returned instead of an empty sequence.
	PlaceholderOnFailure bool

	// Single-slot cache backend: file (default), s3, or memory.
	CacheBackend      string
	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:       absDataDir,
		Port:          getEnvAsInt("PORT", 8080),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DevMode:       getEnvAsBool("DEV_MODE", false),
		DefaultHandle: getEnv("DEFAULT_HANDLE", "usedoppai"),

		TwitterBearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
		TwitterBaseURL:     getEnv("TWITTER_BASE_URL", "https://api.twitter.com/2"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		CoinGeckoBaseURL:   getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),

		PlaceholderOnFailure: getEnvAsBool("PLACEHOLDER_ON_FAILURE", false),

		CacheBackend:      getEnv("CACHE_BACKEND", CacheBackendFile),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration consistency.
// Upstream credentials are optional: a missing credential routes the feature
// into its fallback path rather than failing startup.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	switch c.CacheBackend {
	case CacheBackendFile, CacheBackendMemory:
	case CacheBackendS3:
		if c.S3Bucket == "" || c.S3AccessKeyID == "" || c.S3SecretAccessKey == "" {
			return fmt.Errorf("s3 cache backend requires S3_BUCKET, S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY")
		}
	default:
		return fmt.Errorf("unknown cache backend: %s", c.CacheBackend)
	}

	if c.DefaultHandle == "" {
		return fmt.Errorf("default handle must not be empty")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
