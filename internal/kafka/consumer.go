package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageHandler func(ctx context.Context, message []byte) error

const (
	defaultHandleAttempts = 3
	defaultRetryDelay     = 500 * time.Millisecond
)

type Consumer struct {
	reader      *kafka.Reader
	handler     MessageHandler
	logger      *zap.Logger
	maxAttempts int
	retryDelay  time.Duration
}

func NewConsumer(brokers []string, topic, groupID string, handler MessageHandler, l *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		Logger:         zap.NewStdLog(l.With(zap.String("kafka_component", "consumer"))),
		ErrorLogger:    zap.NewStdLog(l.With(zap.String("kafka_component", "consumer_errors"))),
	})

	l.Info("Kafka consumer created",
		zap.String("topic", topic),
		zap.String("group_id", groupID),
		zap.Strings("brokers", brokers))

	return &Consumer{
		reader:      reader,
		handler:     handler,
		logger:      l,
		maxAttempts: defaultHandleAttempts,
		retryDelay:  defaultRetryDelay,
	}
}

// Run fetches and handles messages until ctx is cancelled. A failing handler
// is retried up to maxAttempts times; after that the message is logged and
// committed, so it is not redelivered.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, kafka.ErrGroupClosed) {
				return err
			}
			c.logger.Error("Error fetching message from Kafka", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		if err := c.handle(ctx, m.Value); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("Dropping Kafka message after failed attempts",
				zap.String("topic", m.Topic),
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Int("attempts", c.maxAttempts),
				zap.Error(err))
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("Failed to commit offset for message",
				zap.String("topic", m.Topic),
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Error(err))
			continue
		}
		c.logger.Debug("Committed message offset",
			zap.String("topic", m.Topic),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset))
	}
}

func (c *Consumer) handle(ctx context.Context, message []byte) error {
	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err = c.handler(ctx, message); err == nil {
			return nil
		}
		if attempt == c.maxAttempts {
			break
		}
		c.logger.Warn("Kafka message handler failed, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
	return err
}

func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("Failed to close Kafka consumer", zap.Error(err))
		return fmt.Errorf("failed to close Kafka consumer: %w", err)
	}
	c.logger.Info("Kafka consumer closed.")
	return nil
}
