package order_repo

import (
	"context"
	"errors"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	FindAll(ctx context.Context) ([]*domain.Order, error)
}
