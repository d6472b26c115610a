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

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/internal/kafka"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/internal/observability"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/internal/postgres"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/app/orders"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/config"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/events"
	http_orders "github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/handler/http/orders"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/infrastructure/inventory"
	postgres_order_repo "github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/repository/order_repo/postgres"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := observability.NewLogger("order-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create zap logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Order Service starting...")

	shutdownTracing, err := observability.SetupTracing(context.Background(), "order-service", cfg.OtelEndpoint, appLogger)
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

	topicCtx, cancelTopics := context.WithTimeout(context.Background(), 30*time.Second)
	if err := kafka.EnsureTopics(topicCtx, cfg.GetKafkaBrokers(), []string{cfg.KafkaOrderPlacedTopic}, appLogger); err != nil {
		// Publishing is best effort; the broker may create the topic on first write.
		appLogger.Warn("Could not ensure Kafka topics", zap.Error(err))
	}
	cancelTopics()

	kafkaProducer, err := kafka.NewProducer(cfg.GetKafkaBrokers(), appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create Kafka producer", zap.Error(err))
	}
	defer func() {
		if err := kafkaProducer.Close(); err != nil {
			appLogger.Error("Error closing Kafka producer", zap.Error(err))
		} else {
			appLogger.Info("Kafka producer closed.")
		}
	}()
	appLogger.Info("Kafka producer created successfully.")

	publisher := events.NewAsyncPublisher(kafkaProducer, cfg.PublishTimeout, appLogger.With(zap.String("component", "EventPublisher")))

	inventoryClient, err := inventory.NewClient(cfg.InventoryServiceURL, cfg.InventoryTimeout, appLogger.With(zap.String("component", "InventoryClient")))
	if err != nil {
		appLogger.Fatal("Failed to create inventory client", zap.Error(err))
	}

	orderRepository := postgres_order_repo.NewOrderRepository(db, appLogger)
	orderService := orders.NewOrderService(orderRepository, inventoryClient, publisher, cfg.KafkaOrderPlacedTopic, appLogger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	http_orders.RegisterRoutes(r, orderService, appLogger.With(zap.String("component", "OrderHTTPHandler")))

	serverAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      otelhttp.NewHandler(r, "order-service"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()
	appLogger.Info("Order Service started", zap.String("address", serverAddr))

	<-sigChan

	appLogger.Info("Shutting down Order Service...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Order Service graceful shutdown failed", zap.Error(err))
	}
	// Producer and database close in the deferred calls above, after in-flight events drain.
	if err := publisher.Close(ctx); err != nil {
		appLogger.Error("Some events were not delivered before shutdown", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		appLogger.Error("Failed to flush traces", zap.Error(err))
	}
	appLogger.Info("Order Service stopped.")
}
