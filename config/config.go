package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the news engine
type Config struct {
	Database     DatabaseConfig
	Kafka        KafkaConfig
	Logging      LoggingConfig
	Service      ServiceConfig
	ModelService ModelServiceConfig
	Telegram     TelegramConfig
	Webhook      WebhookConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers              []string
	GroupID              string
	TopicWebhookProcess  string
	TopicClassifyNews    string
	TopicDispatchUrgent  string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
	Port string
}

// ModelServiceConfig holds model inference service client configuration
type ModelServiceConfig struct {
	URL     string
	Timeout time.Duration
}

// TelegramConfig holds Telegram notification channel configuration
type TelegramConfig struct {
	BotToken string
}

// WebhookConfig holds webhook receiver configuration
type WebhookConfig struct {
	DefaultRateLimitPerMinute int
	MaxBodyBytes              int
}

// Result is fx.Out struct for providing config dependencies
type Result struct {
	fx.Out

	Config             *Config
	DatabaseConfig     *DatabaseConfig
	KafkaConfig        *KafkaConfig
	LoggingConfig      *LoggingConfig
	ServiceConfig      *ServiceConfig
	ModelServiceConfig *ModelServiceConfig
	TelegramConfig     *TelegramConfig
	WebhookConfig      *WebhookConfig
}

// Out returns fx-compatible config result
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:             cfg,
		DatabaseConfig:     &cfg.Database,
		KafkaConfig:        &cfg.Kafka,
		LoggingConfig:      &cfg.Logging,
		ServiceConfig:      &cfg.Service,
		ModelServiceConfig: &cfg.ModelService,
		TelegramConfig:     &cfg.Telegram,
		WebhookConfig:      &cfg.Webhook,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5432"),
			User:     getEnv("DATABASE_USER", "news_user"),
			Password: getEnv("DATABASE_PASSWORD", "news_pass"),
			DBName:   getEnv("DATABASE_NAME", "news_db"),
			SSLMode:  getEnv("DATABASE_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:             strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			GroupID:             getEnv("KAFKA_GROUP_ID", "news-engine-group"),
			TopicWebhookProcess: getEnv("KAFKA_TOPIC_WEBHOOK_PROCESS", "webhook.process"),
			TopicClassifyNews:   getEnv("KAFKA_TOPIC_CLASSIFY_NEWS", "news.classify"),
			TopicDispatchUrgent: getEnv("KAFKA_TOPIC_DISPATCH_URGENT", "news.urgent"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "news-engine"),
			Port: getEnv("SERVICE_PORT", "8080"),
		},
		ModelService: ModelServiceConfig{
			URL:     getEnv("MODEL_SERVICE_URL", ""),
			Timeout: getEnvDuration("MODEL_SERVICE_TIMEOUT", 10*time.Second),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Webhook: WebhookConfig{
			DefaultRateLimitPerMinute: getEnvInt("WEBHOOK_DEFAULT_RATE_LIMIT", 100),
			MaxBodyBytes:              getEnvInt("WEBHOOK_MAX_BODY_BYTES", 1<<20),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DATABASE_HOST is required")
	}

	if c.Database.User == "" {
		return fmt.Errorf("DATABASE_USER is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}

	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}

	return nil
}

// GetDSN returns database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets environment variable as int with default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvDuration gets environment variable as duration with default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
