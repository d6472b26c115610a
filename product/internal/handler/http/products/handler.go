package products

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/product/internal/app/products"
)

type ProductHandler struct {
	service products.ProductService
	logger  *zap.Logger
}

func NewProductHandler(s products.ProductService, l *zap.Logger) *ProductHandler {
	return &ProductHandler{service: s, logger: l}
}

// productJSON writes the price as a bare JSON number, exactly as stored.
type productJSON struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
}

func toJSON(p *products.ProductResponse) productJSON {
	return productJSON{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       json.Number(p.Price.String()),
	}
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req products.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for CreateProduct", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.service.CreateProduct(r.Context(), &req)
	if err != nil {
		if errors.Is(err, products.ErrInvalidProduct) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Error creating product", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, toJSON(res))
}

func (h *ProductHandler) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetAllProducts(r.Context())
	if err != nil {
		h.logger.Error("Error listing products", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	body := make([]productJSON, len(res))
	for i, p := range res {
		body[i] = toJSON(p)
	}
	h.writeJSON(w, http.StatusOK, body)
}

func (h *ProductHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}
