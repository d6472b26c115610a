package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/gateway/internal/config"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/gateway/internal/metrics"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/gateway/internal/router"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/internal/observability"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := observability.NewLogger("api-gateway")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create zap logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = appLogger.Sync() }()

	shutdownTracing, err := observability.SetupTracing(context.Background(), "api-gateway", cfg.OtelEndpoint, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to set up tracing", zap.Error(err))
	}

	r, err := router.NewRouter(cfg, metrics.NewRegistry(), appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create router", zap.Error(err))
	}

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.GatewayPort),
		Handler:     otelhttp.NewHandler(r, "api-gateway"),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		appLogger.Info("API Gateway starting", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-sigChan
	appLogger.Info("Shutting down API Gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("API Gateway graceful shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		appLogger.Error("Failed to flush traces", zap.Error(err))
	}
	appLogger.Info("API Gateway stopped.")
}
