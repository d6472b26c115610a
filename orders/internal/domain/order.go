package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidOrder = errors.New("invalid order data")

// Order is immutable once created.
type Order struct {
	OrderNumber string
	SkuCode     string
	Price       decimal.Decimal
	Quantity    int
	CreatedAt   time.Time
}

func NewOrder(orderNumber, skuCode string, price decimal.Decimal, quantity int) (*Order, error) {
	if orderNumber == "" || skuCode == "" || quantity < 1 || price.IsNegative() {
		return nil, ErrInvalidOrder
	}
	return &Order{
		OrderNumber: orderNumber,
		SkuCode:     skuCode,
		Price:       price,
		Quantity:    quantity,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
