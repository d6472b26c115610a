package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/inventory/internal/app/inventory"
)

type InventoryHandler struct {
	service inventory.InventoryService
	logger  *zap.Logger
}

func NewInventoryHandler(s inventory.InventoryService, l *zap.Logger) *InventoryHandler {
	return &InventoryHandler{service: s, logger: l}
}

// IsInStock answers GET /api/inventory?skuCode=..&quantity=.. with a bare JSON boolean.
func (h *InventoryHandler) IsInStock(w http.ResponseWriter, r *http.Request) {
	skuCode := r.URL.Query().Get("skuCode")
	quantityStr := r.URL.Query().Get("quantity")
	if skuCode == "" || quantityStr == "" {
		http.Error(w, "skuCode and quantity are required", http.StatusBadRequest)
		return
	}

	quantity, err := strconv.Atoi(quantityStr)
	if err != nil {
		h.logger.Warn("Invalid quantity format", zap.String("quantity", quantityStr), zap.Error(err))
		http.Error(w, "Invalid quantity format", http.StatusBadRequest)
		return
	}

	inStock, err := h.service.IsInStock(r.Context(), skuCode, quantity)
	if err != nil {
		if errors.Is(err, inventory.ErrInvalidQuery) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Error checking stock", zap.String("sku_code", skuCode), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(inStock); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}
