package orders

import "github.com/shopspring/decimal"

type UserDetails struct {
	Email string `json:"email"`
}

type OrderRequest struct {
	SkuCode     string          `json:"skuCode"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	UserDetails UserDetails     `json:"userDetails"`
}

type OrderResponse struct {
	OrderNumber string          `json:"orderNumber"`
	SkuCode     string          `json:"skuCode"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	CreatedAt   string          `json:"createdAt"`
}
