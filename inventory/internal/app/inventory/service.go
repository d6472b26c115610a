package inventory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/inventory/internal/repository/stock_repo"
)

var (
	ErrInvalidQuery = errors.New("invalid stock query")
	ErrStoreFailure = errors.New("stock store failure")
)

type InventoryService interface {
	IsInStock(ctx context.Context, skuCode string, quantity int) (bool, error)
}

type inventoryService struct {
	stockRepo stock_repo.StockRepository
	logger    *zap.Logger
}

func NewInventoryService(stockRepo stock_repo.StockRepository, logger *zap.Logger) InventoryService {
	return &inventoryService{stockRepo: stockRepo, logger: logger}
}

func (s *inventoryService) IsInStock(ctx context.Context, skuCode string, quantity int) (bool, error) {
	if skuCode == "" {
		return false, fmt.Errorf("%w: skuCode is required", ErrInvalidQuery)
	}
	if quantity < 1 {
		return false, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidQuery)
	}

	inStock, err := s.stockRepo.IsInStock(ctx, skuCode, quantity)
	if err != nil {
		s.logger.Error("Failed to check stock", zap.String("sku_code", skuCode), zap.Int("quantity", quantity), zap.Error(err))
		return false, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	s.logger.Debug("Stock checked",
		zap.String("sku_code", skuCode),
		zap.Int("quantity", quantity),
		zap.Bool("in_stock", inStock))
	return inStock, nil
}
