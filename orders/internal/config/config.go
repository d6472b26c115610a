package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/internal/postgres"
)

type Config struct {
	DBConfig struct {
		DBHost     string `env:"ORDERS_DB_HOST"`
		DBPort     string `env:"ORDERS_DB_PORT"`
		DBUser     string `env:"ORDERS_DB_USER"`
		DBPassword string `env:"ORDERS_DB_PASSWORD"`
		DBName     string `env:"ORDERS_DB_NAME"`
		DBSSLMode  string `env:"ORDERS_DB_SSLMODE"`
	}

	HTTPPort       int    `env:"ORDERS_PORT"`
	MigrationsPath string `env:"MIGRATIONS_PATH"`

	KafkaURL              string `env:"KAFKA_BROKER_URL"`
	KafkaOrderPlacedTopic string `env:"KAFKA_ORDER_PLACED_TOPIC"`

	InventoryServiceURL string        `env:"INVENTORY_SERVICE_URL"`
	InventoryTimeout    time.Duration `env:"INVENTORY_TIMEOUT"`
	PublishTimeout      time.Duration `env:"PUBLISH_TIMEOUT"`

	OtelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.DBConfig.DBHost = getEnvOrDefault("ORDERS_DB_HOST", "localhost")
	cfg.DBConfig.DBPort = getEnvOrDefault("ORDERS_DB_PORT", "5432")
	cfg.DBConfig.DBUser = getEnvOrDefault("ORDERS_DB_USER", "postgres")
	cfg.DBConfig.DBPassword = getEnvOrDefault("ORDERS_DB_PASSWORD", "postgres")
	cfg.DBConfig.DBName = getEnvOrDefault("ORDERS_DB_NAME", "orders_db")
	cfg.DBConfig.DBSSLMode = getEnvOrDefault("ORDERS_DB_SSLMODE", "disable")

	port, err := strconv.Atoi(getEnvOrDefault("ORDERS_PORT", "8081"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORDERS_PORT: %w", err)
	}
	cfg.HTTPPort = port
	cfg.MigrationsPath = getEnvOrDefault("MIGRATIONS_PATH", "file:///app/migrations")

	cfg.KafkaURL = getEnvOrDefault("KAFKA_BROKER_URL", "localhost:9092")
	cfg.KafkaOrderPlacedTopic = getEnvOrDefault("KAFKA_ORDER_PLACED_TOPIC", "order-placed")

	cfg.InventoryServiceURL = getEnvOrDefault("INVENTORY_SERVICE_URL", "http://localhost:8082")

	if cfg.InventoryTimeout, err = parsePositiveDuration("INVENTORY_TIMEOUT", "3s"); err != nil {
		return nil, err
	}
	if cfg.PublishTimeout, err = parsePositiveDuration("PUBLISH_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.OtelEndpoint = getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	return cfg, nil
}

// parsePositiveDuration rejects zero and negative values: a zero client
// timeout would mean no timeout at all.
func parsePositiveDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnvOrDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %s", key, d)
	}
	return d, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func (c *Config) GetDBConfig() postgres.DBConfig {
	return postgres.DBConfig{
		Host:     c.DBConfig.DBHost,
		Port:     c.DBConfig.DBPort,
		User:     c.DBConfig.DBUser,
		Password: c.DBConfig.DBPassword,
		DBName:   c.DBConfig.DBName,
		SSLMode:  c.DBConfig.DBSSLMode,
	}
}

func (c *Config) GetKafkaBrokers() []string {
	return []string{c.KafkaURL}
}
