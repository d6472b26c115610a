package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/internal/postgres"
)

type Config struct {
	DBConfig struct {
		Host     string `env:"INVENTORY_DB_HOST"`
		Port     int    `env:"INVENTORY_DB_PORT"`
		User     string `env:"INVENTORY_DB_USER"`
		Password string `env:"INVENTORY_DB_PASSWORD"`
		Name     string `env:"INVENTORY_DB_NAME"`
		SSLMode  string `env:"INVENTORY_DB_SSLMODE"`
	}

	HTTPPort       int    `env:"INVENTORY_PORT"`
	MigrationsPath string `env:"MIGRATIONS_PATH"`

	OtelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.DBConfig.Host = getEnvOrDefault("INVENTORY_DB_HOST", "localhost")
	dbPort, err := getEnvAsInt("INVENTORY_DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	cfg.DBConfig.Port = dbPort
	cfg.DBConfig.User = getEnvOrDefault("INVENTORY_DB_USER", "postgres")
	cfg.DBConfig.Password = getEnvOrDefault("INVENTORY_DB_PASSWORD", "postgres")
	cfg.DBConfig.Name = getEnvOrDefault("INVENTORY_DB_NAME", "inventory_db")
	cfg.DBConfig.SSLMode = getEnvOrDefault("INVENTORY_DB_SSLMODE", "disable")

	port, err := getEnvAsInt("INVENTORY_PORT", 8082)
	if err != nil {
		return nil, err
	}
	cfg.HTTPPort = port
	cfg.MigrationsPath = getEnvOrDefault("MIGRATIONS_PATH", "file:///app/migrations")

	cfg.OtelEndpoint = getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	return cfg, nil
}

func (c *Config) GetDBConfig() postgres.DBConfig {
	return postgres.DBConfig{
		Host:     c.DBConfig.Host,
		Port:     strconv.Itoa(c.DBConfig.Port),
		User:     c.DBConfig.User,
		Password: c.DBConfig.Password,
		DBName:   c.DBConfig.Name,
		SSLMode:  c.DBConfig.SSLMode,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := getEnvOrDefault(key, strconv.Itoa(defaultValue))
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
