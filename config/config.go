// Package config loads the photo server's runtime configuration from the
// environment, optionally seeded from a .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Metadata store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// File storage backends.
const (
	BackendDisk      = "disk"
	BackendJetStream = "jetstream"
)

// Config holds all runtime configuration for the photo server.
type Config struct {
	HTTPPort      int
	PublicDir     string
	UploadDir     string
	MaxUploadSize int64

	DBDriver    string
	DBPath      string
	DatabaseURL string
	DBDebug     bool

	StorageBackend string
	JetStreamDir   string

	RedisAddr string
	CacheTTL  time.Duration

	LogLevel        string
	ShutdownTimeout time.Duration
}

// Load reads the configuration. A .env file in the working directory is
// loaded first when present; variables already set in the environment win.
func Load() *Config {
	// Missing .env is normal outside development.
	_ = godotenv.Load()

	return &Config{
		HTTPPort:      getEnvInt("HTTP_PORT", 3000),
		PublicDir:     getEnv("PUBLIC_DIR", "public"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", 10*1024*1024),

		DBDriver:    getEnv("DB_DRIVER", DriverSQLite),
		DBPath:      getEnv("DB_PATH", "photos.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBDebug:     getEnv("DB_DEBUG", "") == "true",

		StorageBackend: getEnv("STORAGE_BACKEND", BackendDisk),
		JetStreamDir:   getEnv("JETSTREAM_DIR", "/tmp/photo-server"),

		RedisAddr: getEnv("REDIS_ADDR", ""),
		CacheTTL:  getEnvDuration("CACHE_TTL", 5*time.Minute),

		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the %s driver", DriverSQLite)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}

	switch c.StorageBackend {
	case BackendDisk:
		if c.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR is required for the %s backend", BackendDisk)
		}
	case BackendJetStream:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	return nil
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvInt64 returns environment variable as int64 or default.
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int64 value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as time.Duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
