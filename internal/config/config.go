package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, sourced from the environment.
type Config struct {
	Port        string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	BadgeBucket  string
	PhotoBucket  string
	ReportBucket string

	JWTSecret     string
	AdminUsername string
	AdminPassword string

	SessionTTL time.Duration
	CartTTL    time.Duration

	WebhookURL  string
	AlertEmail  string
	SenderEmail string

	LowStockThreshold int
}

// Load reads configuration from the environment, applying development
// defaults for everything except the secrets.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		BadgeBucket:  getEnv("BADGE_BUCKET", "canteen-badges"),
		PhotoBucket:  getEnv("PHOTO_BUCKET", "canteen-photos"),
		ReportBucket: getEnv("REPORT_BUCKET", "canteen-reports"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		SessionTTL: getEnvDuration("SESSION_TTL", 30*time.Minute),
		CartTTL:    getEnvDuration("CART_TTL", 30*time.Minute),

		WebhookURL:  os.Getenv("WEBHOOK_URL"),
		AlertEmail:  getEnv("ALERT_EMAIL", "canteen-admin@example.com"),
		SenderEmail: getEnv("SENDER_EMAIL", "canteen@example.com"),

		LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 5),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
