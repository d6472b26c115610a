package products

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/product/internal/app/products"
)

const apiDocs = `{
  "openapi": "3.0.1",
  "info": {"title": "Product Service API", "version": "v1"},
  "paths": {
    "/api/product": {
      "post": {"responses": {"201": {"description": "Product created"}, "400": {"description": "Invalid product"}}},
      "get": {"responses": {"200": {"description": "All products"}}}
    }
  }
}`

func RegisterRoutes(r chi.Router, s products.ProductService, l *zap.Logger) {
	handler := NewProductHandler(s, l.With(zap.String("component", "ProductHTTPHandler")))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Product service is healthy!"))
	})

	r.Get("/api-docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(apiDocs))
	})

	r.Route("/api/product", func(r chi.Router) {
		r.Post("/", handler.CreateProduct)
		r.Get("/", handler.GetAllProducts)
	})
}
