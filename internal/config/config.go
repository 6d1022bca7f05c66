package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Kafka
	KafkaBrokers string
	KafkaTopic   string

	// API Configuration
	APIPort string
	APIHost string

	// Tracking
	Enabled         bool
	AccountID       string
	DebugMode       bool
	ConversionLabel string
	TrackPageType   bool

	// Collector
	CollectorURL string

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:     getEnv("DATABASE_URL", "sqlite://sealtrack.db"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "tracking-events"),
		APIPort:         getEnv("API_PORT", "8080"),
		APIHost:         getEnv("API_HOST", "0.0.0.0"),
		Enabled:         getEnvAsBool("SEALTRACK_ENABLED", true),
		AccountID:       getEnv("SEALTRACK_ACCOUNT_ID", ""),
		DebugMode:       getEnvAsBool("SEALTRACK_DEBUG_MODE", false),
		ConversionLabel: getEnv("SEALTRACK_CONVERSION_LABEL", "lead"),
		TrackPageType:   getEnvAsBool("SEALTRACK_TRACK_PAGE_TYPE", true),
		CollectorURL:    getEnv("COLLECTOR_URL", "https://collector.sealtrack.io/events"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}, nil
}

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
