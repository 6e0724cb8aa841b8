package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Config holds all configuration for the application
// Values come from environment variables, optionally seeded from a .env file
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Assets   AssetConfig
	Auth     AuthConfig
	Events   EventConfig
	Metrics  MetricsConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	MaxBodyBytes    int64
	AllowedOrigins  []string
}

type StorageConfig struct {
	Driver         string
	MongoURI       string
	MongoDatabase  string
	ConnectTimeout int
}

type AssetConfig struct {
	UploadDir     string
	DefaultImage  string
	PublicBaseURL string // empty means derive from the request
}

type AuthConfig struct {
	AdminPassword string
	RequireAdmin  bool // guard admin mutations with the password header
}

type EventConfig struct {
	AMQPURL  string // empty disables publishing
	Exchange string
}

type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from .env (if present) and environment variables
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			MaxBodyBytes:    int64(getEnvAsInt("MAX_BODY_BYTES", 10<<20)),
			AllowedOrigins:  getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Storage: StorageConfig{
			Driver:         strings.ToLower(getEnv("STORAGE_DRIVER", StorageMongo)),
			MongoURI:       getEnv("MONGO_URI", ""),
			MongoDatabase:  getEnv("MONGO_DATABASE", "delivery"),
			ConnectTimeout: getEnvAsInt("MONGO_CONNECT_TIMEOUT", 10),
		},
		Assets: AssetConfig{
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
			DefaultImage:  getEnv("DEFAULT_IMAGE", "logo.png"),
			PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		},
		Auth: AuthConfig{
			AdminPassword: getEnv("ADMIN_PASSWORD", "1234"),
			RequireAdmin:  getEnvAsBool("ADMIN_AUTH_REQUIRED", false),
		},
		Events: EventConfig{
			AMQPURL:  getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "snack_orders"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}

	switch c.Storage.Driver {
	case StorageMongo:
		if c.Storage.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo storage driver")
		}
		if c.Storage.MongoDatabase == "" {
			return fmt.Errorf("MONGO_DATABASE must not be empty")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("invalid storage driver: %s (must be mongo or memory)", c.Storage.Driver)
	}

	if c.Assets.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}

	if c.Assets.DefaultImage == "" || strings.ContainsAny(c.Assets.DefaultImage, `/\`) {
		return fmt.Errorf("DEFAULT_IMAGE must be a plain file name")
	}

	if c.Auth.RequireAdmin && c.Auth.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_AUTH_REQUIRED is set")
	}

	if c.Events.AMQPURL != "" && c.Events.Exchange == "" {
		return fmt.Errorf("AMQP_EXCHANGE must not be empty when AMQP_URL is set")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
