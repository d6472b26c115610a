package orders

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/app/orders"
)

const apiDocs = `{
  "openapi": "3.0.1",
  "info": {"title": "Order Service API", "version": "v1"},
  "paths": {
    "/api/order": {
      "post": {"responses": {"201": {"description": "Order Placed Successfully"}, "409": {"description": "Product out of stock"}, "503": {"description": "Inventory unavailable"}}},
      "get": {"responses": {"200": {"description": "All orders"}}}
    },
    "/api/order/{orderNumber}": {
      "get": {"responses": {"200": {"description": "One order"}, "404": {"description": "Order not found"}}}
    }
  }
}`

func RegisterRoutes(r chi.Router, s orders.OrderService, l *zap.Logger) {
	handler := NewOrderHandler(s, l.With(zap.String("component", "OrderHTTPHandler")))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Order service is healthy!"))
	})

	r.Get("/api-docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(apiDocs))
	})

	r.Route("/api/order", func(r chi.Router) {
		r.Post("/", handler.PlaceOrder)
		r.Get("/", handler.ListOrders)
		r.Get("/{orderNumber}", handler.GetOrder)
	})
}
