package orders

import (
	"errors"
	"fmt"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/domain"
)

var (
	ErrInvalidOrder         = domain.ErrInvalidOrder
	ErrOrderNotFound        = errors.New("order not found")
	ErrOutOfStock           = errors.New("product is not in stock")
	ErrInventoryUnavailable = errors.New("inventory service unavailable")
	ErrPersistenceFailed    = errors.New("failed to persist order")
)

// OutOfStockError is the business rejection for an unavailable SKU.
type OutOfStockError struct {
	SkuCode string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product with skuCode %s is not in stock, please try again later", e.SkuCode)
}

func (e *OutOfStockError) Is(target error) bool { return target == ErrOutOfStock }
