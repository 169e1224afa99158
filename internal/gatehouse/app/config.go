package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer        string // Optional: issuer claim for session tokens (default: gatehouse)
	JWTSecretFile string // Optional: path to file containing the HS256 signing secret (default: ./jwt_secret)

	Backend        string        // Optional: storage backend (memory, external) (default: memory)
	DatabaseDriver string        // Optional: credential database driver (sqlite, postgres) (default: sqlite)
	DatabaseFile   string        // Optional: path to SQLite database file (default: ./gatehouse.db)
	DatabaseURL    string        // Required for postgres: connection URL
	RedisAddr      string        // Required for external backend: Redis address (default: localhost:6379)
	TokenTTL       time.Duration // Optional: session token lifetime (default: 10m)
	ChallengeTTL   time.Duration // Optional: pending 2FA challenge lifetime (default: 600s)
	HashWorkers    int           // Optional: password hashing worker count (default: GOMAXPROCS)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:        getEnvOrDefault("AUTH_ISSUER", "gatehouse"),
		JWTSecretFile: getEnvOrDefault("AUTH_JWT_SECRET_FILE", "jwt_secret"),

		Backend:        getEnvOrDefault("AUTH_BACKEND", "memory"),
		DatabaseDriver: getEnvOrDefault("AUTH_DATABASE_DRIVER", "sqlite"),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "gatehouse.db"),
		DatabaseURL:    os.Getenv("AUTH_DATABASE_URL"),
		RedisAddr:      getEnvOrDefault("AUTH_REDIS_ADDR", "localhost:6379"),
		TokenTTL:       getEnvDurationOrDefault("AUTH_TOKEN_TTL", 10*time.Minute),
		ChallengeTTL:   getEnvDurationOrDefault("AUTH_CHALLENGE_TTL", 600*time.Second),
		HashWorkers:    getEnvIntOrDefault("AUTH_HASH_WORKERS", 0),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
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

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
