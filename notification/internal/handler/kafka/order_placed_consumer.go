package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/internal/kafka"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/notification/internal/domain"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/notification/internal/notifier"
)

// OrderPlacedMessageHandler decodes order-placed events and hands them to n.
// Messages that cannot be decoded are logged and acknowledged so they do not
// block the partition.
func OrderPlacedMessageHandler(n notifier.Notifier, logger *zap.Logger) kafka.MessageHandler {
	return func(ctx context.Context, message []byte) error {
		var event domain.OrderPlacedEvent
		if err := json.Unmarshal(message, &event); err != nil {
			logger.Error("Failed to unmarshal Kafka message value to OrderPlacedEvent",
				zap.Error(err),
				zap.ByteString("value", message))
			return nil
		}
		if event.OrderNumber == "" {
			logger.Warn("Skipping OrderPlacedEvent without an order number", zap.ByteString("value", message))
			return nil
		}

		logger.Info("Received OrderPlacedEvent", zap.String("order_number", event.OrderNumber))

		if err := n.NotifyOrderPlaced(ctx, event); err != nil {
			logger.Error("Failed to send order notification",
				zap.String("order_number", event.OrderNumber),
				zap.Error(err))
			return fmt.Errorf("failed to notify for order %s: %w", event.OrderNumber, err)
		}
		return nil
	}
}
