package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidProduct = errors.New("invalid product data")

type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	CreatedAt   time.Time
}

func NewProduct(id, name, description string, price decimal.Decimal) (*Product, error) {
	if id == "" || name == "" || price.IsNegative() {
		return nil, ErrInvalidProduct
	}
	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
