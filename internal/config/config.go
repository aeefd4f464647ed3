package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds the HTTP server settings
type AppConfig struct {
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// DBConfig holds the Postgres connection settings
type DBConfig struct {
	URL      string
	MaxConns int32
}

// RedisConfig holds the key-value store settings backing the list stores
type RedisConfig struct {
	URL string
}

// KafkaConfig holds the event bus settings
type KafkaConfig struct {
	Brokers       []string
	EventsTopic   string
	ConsumerGroup string
}

// AuthConfig holds token and admin account settings
type AuthConfig struct {
	Secret string
	Expiry time.Duration
	// Admins is a comma separated list of email:role:bcrypt-hash entries.
	Admins string
}

type Config struct {
	ServiceName  string
	AppCfg       AppConfig
	DBConfig     DBConfig
	RedisConfig  RedisConfig
	KafkaConfig  KafkaConfig
	AuthConfig   AuthConfig
	WebhookURL   string
	OTLPEndpoint string
}

// Load reads an optional .env file and then the environment.
func Load(serviceName, defaultPort string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: serviceName,
		AppCfg: AppConfig{
			Port:            getEnv("PORT", defaultPort),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
			RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		},
		DBConfig: DBConfig{
			URL:      os.Getenv("DATABASE_URL"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
		},
		RedisConfig: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:       splitList(os.Getenv("KAFKA_BROKERS")),
			EventsTopic:   getEnv("KAFKA_EVENTS_TOPIC", "ecowatt.events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "ecowatt-admin"),
		},
		AuthConfig: AuthConfig{
			Secret: os.Getenv("SECRET_KEY"),
			Expiry: getEnvDuration("AUTH_EXPIRY", 12*time.Hour),
			Admins: os.Getenv("ADMIN_USERS"),
		},
		WebhookURL:   os.Getenv("ORDER_WEBHOOK_URL"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings every binary needs.
func (c *Config) Validate() error {
	if c.DBConfig.URL == "" {
		return &ConfigError{Field: "DATABASE_URL", Message: "must be set"}
	}
	if c.AppCfg.Port == "" {
		return &ConfigError{Field: "PORT", Message: "must not be empty"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
