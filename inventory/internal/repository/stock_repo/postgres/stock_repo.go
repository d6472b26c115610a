package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/inventory/internal/repository/stock_repo"
)

type pgStockRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewStockRepository(db *sql.DB, l *zap.Logger) stock_repo.StockRepository {
	return &pgStockRepository{db: db, logger: l}
}

func (r *pgStockRepository) IsInStock(ctx context.Context, skuCode string, quantity int) (bool, error) {
	query := `SELECT quantity >= $2 FROM inventory WHERE sku_code = $1`

	var inStock bool
	err := r.db.QueryRowContext(ctx, query, skuCode, quantity).Scan(&inStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug("Unknown SKU, reporting out of stock", zap.String("sku_code", skuCode))
			return false, nil
		}
		return false, fmt.Errorf("failed to query stock for %s: %w", skuCode, err)
	}
	return inStock, nil
}
