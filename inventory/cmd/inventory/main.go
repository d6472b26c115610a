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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/internal/observability"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/internal/postgres"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/inventory/internal/app/inventory"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/inventory/internal/config"
	inventory_http "github.com/duclongbox/Microservices-E-commerce-API-Backend/inventory/internal/handler/http/inventory"
	postgres_stock_repo "github.com/duclongbox/Microservices-E-commerce-API-Backend/inventory/internal/repository/stock_repo/postgres"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := observability.NewLogger("inventory-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create zap logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Inventory Service starting...")

	shutdownTracing, err := observability.SetupTracing(context.Background(), "inventory-service", cfg.OtelEndpoint, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to set up tracing", zap.Error(err))
	}

	appLogger.Info("Waiting for database to be available...")
	dbConfig := cfg.GetDBConfig()
	db, err := postgres.ConnectWithRetry(dbConfig, 10, 5*time.Second, appLogger)
	if err != nil {
		appLogger.Fatal("Could not connect to database after multiple retries. Exiting.", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Error closing database connection", zap.Error(err))
		} else {
			appLogger.Info("Database connection closed.")
		}
	}()

	if err := postgres.RunMigrations(cfg.MigrationsPath, dbConfig, appLogger); err != nil {
		appLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	stockRepository := postgres_stock_repo.NewStockRepository(db, appLogger.With(zap.String("component", "StockRepository")))
	inventoryService := inventory.NewInventoryService(stockRepository, appLogger.With(zap.String("component", "InventoryService")))
	appLogger.Info("Inventory Service initialized.")

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	inventory_http.RegisterRoutes(router, inventoryService, appLogger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      otelhttp.NewHandler(router, "inventory-service"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	appLogger.Info("Shutting down application...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server graceful shutdown failed", zap.Error(err))
	} else {
		appLogger.Info("HTTP server gracefully shut down.")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		appLogger.Error("Failed to flush traces", zap.Error(err))
	}

	appLogger.Info("Application gracefully shut down.")
}
