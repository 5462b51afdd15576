package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer   string   // Required: issuer claim for access tokens
	Audience []string // Optional: audience claim; empty disables aud validation

	AccessTTL  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL time.Duration // Optional: refresh token lifetime (default: 30 days)

	BootstrapAdminEmail string // Optional: email granted admin on first login
	DefaultRole         string // Optional: role granted to new accounts (default: viewer)

	Algorithm      string        // Optional: JWT signing algorithm (ES256, EdDSA) (default: EdDSA)
	NumKeys        int           // Optional: number of signing keys to generate (default: 3, min: 1, max: 10)
	KeyStorageMode string        // Optional: key storage mode (ephemeral, persistent) (default: ephemeral)
	KeyGracePeriod time.Duration // Optional: grace period for retired keys (default: 30 days)
	MasterKeyPath  string        // Optional: path to master encryption key file (for persistent keys)

	DatabaseFile string // Optional: path to SQLite database file (default: ./accountd.db)

	PublicBaseURL      string // Required for OAuth: externally reachable base URL for the callback
	GoogleClientID     string // Optional: Google OAuth client credentials
	GoogleClientSecret string
	GitHubClientID     string // Optional: GitHub OAuth client credentials
	GitHubClientSecret string
	SecureCookies      bool // Optional: mark cookies Secure (default: true outside dev)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	RevokedRetention     time.Duration // How long revoked refresh rows are kept (default: 30 days)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:     getEnvOrDefault("ACCOUNTD_ISSUER", "accountd"),
		AccessTTL:  getEnvDurationOrDefault("ACCOUNTD_ACCESS_TTL", 15*time.Minute),
		RefreshTTL: getEnvDurationOrDefault("ACCOUNTD_REFRESH_TTL", 30*24*time.Hour),

		BootstrapAdminEmail: os.Getenv("ACCOUNTD_BOOTSTRAP_ADMIN_EMAIL"),
		DefaultRole:         getEnvOrDefault("ACCOUNTD_DEFAULT_ROLE", "viewer"),

		Algorithm:      getEnvOrDefault("ACCOUNTD_ALGORITHM", "EdDSA"),
		KeyStorageMode: getEnvOrDefault("ACCOUNTD_KEY_STORAGE_MODE", "ephemeral"),
		KeyGracePeriod: getEnvDurationOrDefault("ACCOUNTD_KEY_GRACE_PERIOD", 30*24*time.Hour),
		MasterKeyPath:  os.Getenv("ACCOUNTD_MASTER_KEY_PATH"),

		DatabaseFile: getEnvOrDefault("ACCOUNTD_DATABASE_FILE", "accountd.db"),

		PublicBaseURL:      getEnvOrDefault("ACCOUNTD_PUBLIC_BASE_URL", "http://localhost:8080"),
		GoogleClientID:     os.Getenv("ACCOUNTD_GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("ACCOUNTD_GOOGLE_CLIENT_SECRET"),
		GitHubClientID:     os.Getenv("ACCOUNTD_GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("ACCOUNTD_GITHUB_CLIENT_SECRET"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		RevokedRetention:     getEnvDurationOrDefault("ACCOUNTD_REVOKED_RETENTION", 30*24*time.Hour),
	}

	if aud := os.Getenv("ACCOUNTD_AUDIENCE"); aud != "" {
		cfg.Audience = []string{aud}
	}

	// Parse number of keys (default: 3)
	if numKeysStr := os.Getenv("ACCOUNTD_NUM_KEYS"); numKeysStr != "" {
		if numKeys, err := strconv.Atoi(numKeysStr); err == nil {
			cfg.NumKeys = numKeys
		}
		// If parsing fails, NumKeys remains 0 (will use default in KeyManager)
	}

	// Cookies default to Secure outside dev; ACCOUNTD_SECURE_COOKIES overrides.
	cfg.SecureCookies = cfg.Env != "dev"
	if v := os.Getenv("ACCOUNTD_SECURE_COOKIES"); v != "" {
		if secure, err := strconv.ParseBool(v); err == nil {
			cfg.SecureCookies = secure
		}
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
