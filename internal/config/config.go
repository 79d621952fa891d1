package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Webhook  WebhookConfig
	Queue    QueueConfig
	Storage  StorageConfig
	QR       QRConfig
}

type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	// URL like "redis://localhost:6379/0"; empty falls back to the
	// in-memory dedup store.
	URL string
}

type WebhookConfig struct {
	// DedupTTL is how long processed fingerprints are retained for
	// replay.
	DedupTTL time.Duration
}

type QueueConfig struct {
	Region        string
	Endpoint      string
	ReplyQueueURL string
	AlertQueueURL string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

type QRConfig struct {
	// DeepLinkBase is the chat deep-link prefix the short-code redirect
	// targets.
	DeepLinkBase string
}

type WorkerConfig struct {
	GatewayBaseURL  string
	GatewayAPIKey   string
	AlertWebhookURL string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment")
	}

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Redis = RedisConfig{
		URL: getEnv("REDIS_URL", ""),
	}

	dedupTTL, err := time.ParseDuration(getEnv("WEBHOOK_DEDUP_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_DEDUP_TTL: %w", err)
	}
	config.Webhook = WebhookConfig{
		DedupTTL: dedupTTL,
	}

	config.Queue = QueueConfig{
		Region:        getEnv("AWS_REGION", "us-east-1"),
		Endpoint:      getEnv("AWS_ENDPOINT", ""),
		ReplyQueueURL: getEnv("SQS_REPLY_QUEUE_URL", ""),
		AlertQueueURL: getEnv("SQS_ALERT_QUEUE_URL", ""),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	config.QR = QRConfig{
		DeepLinkBase: getEnv("QR_DEEP_LINK_BASE", "https://wa.me"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadWorker reads the settings the notification worker binary needs on
// top of the shared Config.
func LoadWorker() (*WorkerConfig, error) {
	workerConfig := &WorkerConfig{
		GatewayBaseURL:  getEnv("CHAT_GATEWAY_BASE_URL", ""),
		GatewayAPIKey:   getEnv("CHAT_GATEWAY_API_KEY", ""),
		AlertWebhookURL: getEnv("ALERT_WEBHOOK_URL", ""),
	}
	if workerConfig.GatewayBaseURL == "" {
		return nil, fmt.Errorf("CHAT_GATEWAY_BASE_URL is required")
	}
	return workerConfig, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" && c.App.Env != "development" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if (c.Queue.ReplyQueueURL == "") != (c.Queue.AlertQueueURL == "") {
		return fmt.Errorf("SQS_REPLY_QUEUE_URL and SQS_ALERT_QUEUE_URL must be set together")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
