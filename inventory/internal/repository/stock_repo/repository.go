package stock_repo

import "context"

// StockRepository reports on-hand quantities. A SKU the store has never
// seen is treated as having none.
type StockRepository interface {
	IsInStock(ctx context.Context, skuCode string, quantity int) (bool, error)
}
