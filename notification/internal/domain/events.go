package domain

// OrderPlacedEvent mirrors the payload the order service writes to the order-placed topic.
type OrderPlacedEvent struct {
	OrderNumber   string `json:"orderNumber"`
	CustomerEmail string `json:"customerEmail"`
}
