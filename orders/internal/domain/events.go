package domain

// OrderPlacedEvent is published on the order-placed topic once an order is stored.
type OrderPlacedEvent struct {
	OrderNumber   string `json:"orderNumber"`
	CustomerEmail string `json:"customerEmail"`
}
