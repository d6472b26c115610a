package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/notification/internal/domain"
)

type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error
}

// LogNotifier records the e-mail that would be sent instead of sending it.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(l *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: l}
}

func (n *LogNotifier) NotifyOrderPlaced(_ context.Context, event domain.OrderPlacedEvent) error {
	if event.CustomerEmail == "" {
		n.logger.Info("Order placed without a customer e-mail, nothing to send",
			zap.String("order_number", event.OrderNumber))
		return nil
	}
	n.logger.Info("Sending order confirmation",
		zap.String("order_number", event.OrderNumber),
		zap.String("to", event.CustomerEmail),
		zap.String("subject", "Your Order has been successfully placed"))
	return nil
}
