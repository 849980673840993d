package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	UpstreamAPIURL string // Required: base URL of the main REST API
	AIServiceURL   string // Optional: base URL of the AI matching service

	Issuer         string        // Optional: issuer claim for session tokens (default: admin-gateway)
	NumKeys        int           // Optional: number of signing keys to generate (default: 3, min: 1, max: 10)
	KeyStorageMode string        // Optional: key storage mode (ephemeral, persistent) (default: ephemeral)
	MasterKeyPath  string        // Optional: path to master encryption key file (for persistent keys)
	DatabaseFile   string        // Optional: path to SQLite database file (default: ./admin.db)
	SessionMaxAge  time.Duration // Optional: total session validity (default: 30 days)
	SessionUpdate  time.Duration // Optional: silent reissue threshold (default: 24h)
	SecureCookies  bool          // Optional: mark session cookies Secure (default: true outside dev)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		UpstreamAPIURL: os.Getenv("ADMIN_UPSTREAM_API_URL"),
		AIServiceURL:   os.Getenv("ADMIN_AI_API_URL"),

		Issuer:         getEnvOrDefault("ADMIN_ISSUER", "admin-gateway"),
		KeyStorageMode: getEnvOrDefault("ADMIN_KEY_STORAGE_MODE", "ephemeral"),
		MasterKeyPath:  os.Getenv("ADMIN_MASTER_KEY_PATH"),
		DatabaseFile:   getEnvOrDefault("ADMIN_DATABASE_FILE", "admin.db"),
		SessionMaxAge:  getEnvDurationOrDefault("SESSION_MAX_AGE", 30*24*time.Hour),
		SessionUpdate:  getEnvDurationOrDefault("SESSION_UPDATE_AGE", 24*time.Hour),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if numKeysStr := os.Getenv("ADMIN_NUM_KEYS"); numKeysStr != "" {
		if numKeys, err := strconv.Atoi(numKeysStr); err == nil {
			cfg.NumKeys = numKeys
		}
		// If parsing fails, NumKeys remains 0 (will use default in KeyManager)
	}

	// Dev cookies stay plain so local http works; everything else is Secure.
	cfg.SecureCookies = cfg.Env != "dev"
	if v := os.Getenv("SECURE_COOKIES"); v != "" {
		cfg.SecureCookies = v == "true" || v == "1"
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer values are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
