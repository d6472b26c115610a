package product_repo

import (
	"context"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/product/internal/domain"
)

type ProductRepository interface {
	Save(ctx context.Context, product *domain.Product) error
	FindAll(ctx context.Context) ([]*domain.Product, error)
}
