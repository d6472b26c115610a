package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	segmentio "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/internal/kafka"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/internal/observability"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/notification/internal/config"
	kafka_handler "github.com/duclongbox/Microservices-E-commerce-API-Backend/notification/internal/handler/kafka"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/notification/internal/notifier"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := observability.NewLogger("notification-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create zap logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Notification Service starting...")

	topicCtx, cancelTopics := context.WithTimeout(context.Background(), 30*time.Second)
	if err := kafka.EnsureTopics(topicCtx, cfg.GetKafkaBrokers(), []string{cfg.KafkaOrderPlacedTopic}, appLogger); err != nil {
		appLogger.Warn("Could not ensure Kafka topics", zap.Error(err))
	}
	cancelTopics()

	handler := kafka_handler.OrderPlacedMessageHandler(
		notifier.NewLogNotifier(appLogger.With(zap.String("component", "Notifier"))),
		appLogger.With(zap.String("component", "OrderPlacedHandler")),
	)
	consumer := kafka.NewConsumer(
		cfg.GetKafkaBrokers(),
		cfg.KafkaOrderPlacedTopic,
		cfg.KafkaConsumerGroup,
		handler,
		appLogger.With(zap.String("component", "OrderPlacedConsumer")),
	)

	ctxMain, cancelMain := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		appLogger.Info("Starting Order Placed Kafka Consumer...")
		err := consumer.Run(ctxMain)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, segmentio.ErrGroupClosed) {
			appLogger.Error("Order Placed Kafka Consumer failed", zap.Error(err))
		}
		appLogger.Info("Order Placed Kafka Consumer stopped.")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
	case <-stopped:
	}
	appLogger.Info("Shutting down application...")
	cancelMain()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		appLogger.Warn("Order Placed Kafka Consumer did not stop within 5 seconds.")
	}
	if err := consumer.Close(); err != nil {
		appLogger.Error("Error closing Order Placed Kafka Consumer", zap.Error(err))
	}

	appLogger.Info("Application gracefully shut down.")
}
