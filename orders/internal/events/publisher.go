package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/internal/kafka"
)

var ErrPublisherClosed = errors.New("publisher closed")

// Publisher hands a message off for delivery and returns immediately.
// done, if non-nil, receives the delivery outcome exactly once.
type Publisher interface {
	PublishAsync(ctx context.Context, topic string, key, payload []byte, done func(error))
}

// AsyncPublisher sends each message on its own goroutine with its own
// timeout. Delivery is at most once: nothing is retried here.
type AsyncPublisher struct {
	producer kafka.Producer
	timeout  time.Duration
	logger   *zap.Logger

	mu       sync.RWMutex
	closed   bool
	inflight sync.WaitGroup
}

func NewAsyncPublisher(producer kafka.Producer, timeout time.Duration, logger *zap.Logger) *AsyncPublisher {
	return &AsyncPublisher{producer: producer, timeout: timeout, logger: logger}
}

func (p *AsyncPublisher) PublishAsync(ctx context.Context, topic string, key, payload []byte, done func(error)) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		p.finish(topic, key, ErrPublisherClosed, done)
		return
	}
	p.inflight.Add(1)
	p.mu.RUnlock()

	// The caller's request may finish before delivery; keep its values, drop its deadline.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	go func() {
		defer p.inflight.Done()
		defer cancel()
		err := p.producer.Produce(sendCtx, topic, key, payload)
		p.finish(topic, key, err, done)
	}()
}

func (p *AsyncPublisher) finish(topic string, key []byte, err error, done func(error)) {
	if err != nil {
		p.logger.Error("Failed to publish event",
			zap.String("topic", topic),
			zap.ByteString("key", key),
			zap.Error(err))
	} else {
		p.logger.Debug("Event published", zap.String("topic", topic), zap.ByteString("key", key))
	}
	if done != nil {
		done(err)
	}
}

// Close stops accepting new messages and waits for in-flight ones.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		p.logger.Info("Event publisher drained.")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publisher did not drain: %w", ctx.Err())
	}
}
