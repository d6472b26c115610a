package products

import "github.com/shopspring/decimal"

type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type ProductResponse struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
}
