package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/domain"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/events"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/repository/order_repo"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/util"
)

// InventoryChecker answers stock queries. An error means the answer is unknown.
type InventoryChecker interface {
	CheckStock(ctx context.Context, skuCode string, quantity int) (bool, error)
}

type OrderService interface {
	PlaceOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error)
	GetOrder(ctx context.Context, orderNumber string) (*OrderResponse, error)
	ListOrders(ctx context.Context) ([]*OrderResponse, error)
}

type stage string

const (
	stageCheckingStock stage = "CHECKING_STOCK"
	stageOutOfStock    stage = "OUT_OF_STOCK"
	stageCheckFailed   stage = "CHECK_FAILED"
	stagePersisting    stage = "PERSISTING"
	stagePersisted     stage = "PERSISTED"
	stagePublishing    stage = "PUBLISHING"
	stageDone          stage = "DONE"
)

type orderService struct {
	orderRepo  order_repo.OrderRepository
	inventory  InventoryChecker
	publisher  events.Publisher
	topic      string
	generateID func() (string, error)
	logger     *zap.Logger
}

func NewOrderService(
	orderRepo order_repo.OrderRepository,
	inventory InventoryChecker,
	publisher events.Publisher,
	topic string,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		inventory:  inventory,
		publisher:  publisher,
		topic:      topic,
		generateID: util.GenerateUUID,
		logger:     logger,
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("sku_code", req.SkuCode), zap.Int("quantity", req.Quantity))

	log.Debug("Placing order", zap.String("stage", string(stageCheckingStock)))
	inStock, err := s.inventory.CheckStock(ctx, req.SkuCode, req.Quantity)
	if err != nil {
		log.Warn("Stock check failed, rejecting order", zap.String("stage", string(stageCheckFailed)), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrInventoryUnavailable, err)
	}
	if !inStock {
		log.Info("Product out of stock, rejecting order", zap.String("stage", string(stageOutOfStock)))
		return nil, &OutOfStockError{SkuCode: req.SkuCode}
	}

	orderNumber, err := s.generateID()
	if err != nil {
		log.Error("Failed to generate order number", zap.Error(err))
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}
	order, err := domain.NewOrder(orderNumber, req.SkuCode, req.Price, req.Quantity)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("order_number", order.OrderNumber))

	log.Debug("Persisting order", zap.String("stage", string(stagePersisting)))
	if err := s.orderRepo.Save(ctx, order); err != nil {
		log.Error("Failed to persist order", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	log.Info("Order persisted", zap.String("stage", string(stagePersisted)))

	s.publishOrderPlaced(ctx, order, req.UserDetails.Email, log)

	log.Debug("Order placement finished", zap.String("stage", string(stageDone)))
	return mapOrderToResponse(order), nil
}

// publishOrderPlaced never fails the placement: the order is already stored.
func (s *orderService) publishOrderPlaced(ctx context.Context, order *domain.Order, email string, log *zap.Logger) {
	payload, err := json.Marshal(domain.OrderPlacedEvent{
		OrderNumber:   order.OrderNumber,
		CustomerEmail: email,
	})
	if err != nil {
		log.Error("Failed to encode OrderPlacedEvent", zap.Error(err))
		return
	}

	log.Info("Sending OrderPlacedEvent", zap.String("stage", string(stagePublishing)), zap.String("topic", s.topic))
	s.publisher.PublishAsync(ctx, s.topic, []byte(order.OrderNumber), payload, func(err error) {
		if err != nil {
			log.Error("OrderPlacedEvent was not published", zap.Error(err))
			return
		}
		log.Info("OrderPlacedEvent published")
	})
}

func (s *orderService) GetOrder(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, order_repo.ErrOrderNotFound) {
			s.logger.Debug("Order not found", zap.String("order_number", orderNumber))
			return nil, ErrOrderNotFound
		}
		s.logger.Error("Failed to get order from repository", zap.String("order_number", orderNumber), zap.Error(err))
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return mapOrderToResponse(order), nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]*OrderResponse, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list orders from repository", zap.Error(err))
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return mapOrdersToResponse(orders), nil
}

func validateRequest(req *OrderRequest) error {
	switch {
	case req == nil:
		return fmt.Errorf("%w: empty request", ErrInvalidOrder)
	case req.SkuCode == "":
		return fmt.Errorf("%w: skuCode is required", ErrInvalidOrder)
	case req.Quantity < 1:
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidOrder)
	case req.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidOrder)
	}
	return nil
}

func mapOrderToResponse(order *domain.Order) *OrderResponse {
	return &OrderResponse{
		OrderNumber: order.OrderNumber,
		SkuCode:     order.SkuCode,
		Price:       order.Price,
		Quantity:    order.Quantity,
		CreatedAt:   order.CreatedAt.Format(time.RFC3339),
	}
}

func mapOrdersToResponse(orders []*domain.Order) []*OrderResponse {
	responses := make([]*OrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = mapOrderToResponse(order)
	}
	return responses
}
