package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	GatewayPort int

	ProductServiceURL   string
	InventoryServiceURL string
	OrderServiceURL     string

	BreakerFailureThreshold int
	BreakerWindow           time.Duration
	BreakerCoolDown         time.Duration

	UpstreamTimeout    time.Duration
	CORSAllowedOrigins []string
	OtelEndpoint       string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	port, err := strconv.Atoi(getEnvOrDefault("GATEWAY_PORT", "9000"))
	if err != nil {
		return nil, fmt.Errorf("invalid GATEWAY_PORT: %w", err)
	}
	cfg.GatewayPort = port

	cfg.ProductServiceURL = getEnvOrDefault("PRODUCT_SERVICE_URL", "http://localhost:8080")
	cfg.OrderServiceURL = getEnvOrDefault("ORDER_SERVICE_URL", "http://localhost:8081")
	cfg.InventoryServiceURL = getEnvOrDefault("INVENTORY_SERVICE_URL", "http://localhost:8082")

	threshold, err := strconv.Atoi(getEnvOrDefault("BREAKER_FAILURE_THRESHOLD", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid BREAKER_FAILURE_THRESHOLD: %w", err)
	}
	if threshold < 1 {
		return nil, fmt.Errorf("invalid BREAKER_FAILURE_THRESHOLD: must be at least 1, got %d", threshold)
	}
	cfg.BreakerFailureThreshold = threshold

	if cfg.BreakerWindow, err = parseDuration("BREAKER_WINDOW", "10s"); err != nil {
		return nil, err
	}
	if cfg.BreakerCoolDown, err = parseDuration("BREAKER_COOL_DOWN", "5s"); err != nil {
		return nil, err
	}
	if cfg.UpstreamTimeout, err = parseDuration("UPSTREAM_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	for _, origin := range strings.Split(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:4200"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.OtelEndpoint = getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	return cfg, nil
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnvOrDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
