package config

import (
	"os"
	"strconv"
	"time"

	"studycafe/internal/database"
	"studycafe/internal/external"
	"studycafe/internal/messaging"
)

// Config holds the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// Sweeper housekeeping interval (lazy expiry stays authoritative)
	SweepInterval time.Duration

	Database  database.Config
	NATS      messaging.Config
	Directory external.DirectoryConfig
	Features  external.FeaturesConfig
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8082"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,
		SweepInterval:  time.Duration(getEnvInt("SWEEP_INTERVAL_SEC", 30)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "studycafe"),
			Password:           getEnv("DB_PASSWORD", "studycafe123"),
			DBName:             getEnv("DB_NAME", "studycafe"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "studycafe"),
			ClientID:  getEnv("NATS_CLIENT_ID", "studycafe-api"),
		},

		Directory: external.DirectoryConfig{
			BaseURL: getEnv("DIRECTORY_SERVICE_URL", "http://localhost:8090"),
			Timeout: time.Duration(getEnvInt("DIRECTORY_TIMEOUT_SEC", 5)) * time.Second,
		},

		Features: external.FeaturesConfig{
			BaseURL: getEnv("FEATURES_SERVICE_URL", "http://localhost:8091"),
			Timeout: time.Duration(getEnvInt("FEATURES_TIMEOUT_SEC", 5)) * time.Second,
		},
	}
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable value or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
