package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, ,http://b.example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GatewayPort != 9000 {
		t.Fatalf("expected port 9000, got %d", cfg.GatewayPort)
	}
	if cfg.ProductServiceURL != "http://localhost:8080" || cfg.OrderServiceURL != "http://localhost:8081" {
		t.Fatalf("unexpected upstream defaults: %+v", cfg)
	}
	if cfg.BreakerFailureThreshold != 5 || cfg.BreakerWindow != 10*time.Second || cfg.BreakerCoolDown != 5*time.Second {
		t.Fatalf("unexpected breaker config: %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ORDER_SERVICE_URL", "http://orders:8081")
	t.Setenv("BREAKER_COOL_DOWN", "30s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OrderServiceURL != "http://orders:8081" {
		t.Fatalf("expected override, got %s", cfg.OrderServiceURL)
	}
	if cfg.BreakerCoolDown != 30*time.Second {
		t.Fatalf("expected 30s cool-down, got %s", cfg.BreakerCoolDown)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"GATEWAY_PORT":              "eighty",
		"BREAKER_FAILURE_THRESHOLD": "0",
		"BREAKER_WINDOW":            "soon",
		"UPSTREAM_TIMEOUT":          "10",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}
