package orders

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/orders/internal/app/orders"
)

type OrderHandler struct {
	service orders.OrderService
	logger  *zap.Logger
}

func NewOrderHandler(s orders.OrderService, l *zap.Logger) *OrderHandler {
	return &OrderHandler{service: s, logger: l}
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req orders.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for PlaceOrder", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.service.PlaceOrder(r.Context(), &req)
	if err != nil {
		var outOfStock *orders.OutOfStockError
		switch {
		case errors.Is(err, orders.ErrInvalidOrder):
			h.logger.Warn("Bad request for PlaceOrder", zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.As(err, &outOfStock):
			http.Error(w, outOfStock.Error(), http.StatusConflict)
		case errors.Is(err, orders.ErrInventoryUnavailable):
			w.Header().Set("Retry-After", "5")
			http.Error(w, "Inventory service unavailable, please try again later", http.StatusServiceUnavailable)
		default:
			h.logger.Error("Error placing order", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Location", "/api/order/"+res.OrderNumber)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte("Order Placed Successfully"))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")
	if orderNumber == "" {
		http.Error(w, "Order number is required", http.StatusBadRequest)
		return
	}

	res, err := h.service.GetOrder(r.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			h.logger.Info("Order not found", zap.String("order_number", orderNumber))
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Error getting order", zap.String("order_number", orderNumber), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, res)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("Error listing orders", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, res)
}

func (h *OrderHandler) writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}
