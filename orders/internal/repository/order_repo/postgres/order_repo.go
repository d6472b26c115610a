package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/domain"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/repository/order_repo"
)

type pgOrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewOrderRepository(db *sql.DB, l *zap.Logger) order_repo.OrderRepository {
	return &pgOrderRepository{db: db, logger: l}
}

func (r *pgOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	query := `INSERT INTO orders (order_number, sku_code, price, quantity, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, order.OrderNumber, order.SkuCode, order.Price, order.Quantity, order.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to save order", zap.String("order_number", order.OrderNumber), zap.Error(err))
		return fmt.Errorf("failed to save order: %w", err)
	}
	r.logger.Debug("Order saved", zap.String("order_number", order.OrderNumber))
	return nil
}

func (r *pgOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	order := &domain.Order{}
	query := `SELECT order_number, sku_code, price, quantity, created_at FROM orders WHERE order_number = $1`
	err := r.db.QueryRowContext(ctx, query, orderNumber).Scan(&order.OrderNumber, &order.SkuCode, &order.Price, &order.Quantity, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order_repo.ErrOrderNotFound
		}
		r.logger.Error("Failed to find order", zap.String("order_number", orderNumber), zap.Error(err))
		return nil, fmt.Errorf("failed to find order %s: %w", orderNumber, err)
	}
	return order, nil
}

func (r *pgOrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	var orders []*domain.Order
	query := `SELECT order_number, sku_code, price, quantity, created_at FROM orders ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query orders", zap.Error(err))
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		order := &domain.Order{}
		if err := rows.Scan(&order.OrderNumber, &order.SkuCode, &order.Price, &order.Quantity, &order.CreatedAt); err != nil {
			r.logger.Error("Failed to scan order row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Rows error while listing orders", zap.Error(err))
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return orders, nil
}
