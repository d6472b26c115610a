package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/inventory/internal/app/inventory"
)

const apiDocs = `{
  "openapi": "3.0.1",
  "info": {"title": "Inventory Service API", "version": "v1"},
  "paths": {
    "/api/inventory": {
      "get": {
        "parameters": [
          {"name": "skuCode", "in": "query", "required": true, "schema": {"type": "string"}},
          {"name": "quantity", "in": "query", "required": true, "schema": {"type": "integer"}}
        ],
        "responses": {"200": {"description": "true when the quantity is on hand", "content": {"application/json": {"schema": {"type": "boolean"}}}}}
      }
    }
  }
}`

func RegisterRoutes(r chi.Router, s inventory.InventoryService, l *zap.Logger) {
	handler := NewInventoryHandler(s, l.With(zap.String("component", "InventoryHTTPHandler")))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Inventory service is healthy!"))
	})

	r.Get("/api-docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(apiDocs))
	})

	r.Get("/api/inventory", handler.IsInStock)
}
