package products

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/product/internal/domain"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/product/internal/repository/product_repo"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/product/internal/util"
)

var ErrInvalidProduct = domain.ErrInvalidProduct

type ProductService interface {
	CreateProduct(ctx context.Context, req *ProductRequest) (*ProductResponse, error)
	GetAllProducts(ctx context.Context) ([]*ProductResponse, error)
}

type productService struct {
	productRepo product_repo.ProductRepository
	generateID  func() (string, error)
	logger      *zap.Logger
}

func NewProductService(productRepo product_repo.ProductRepository, logger *zap.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		generateID:  util.GenerateUUID,
		logger:      logger,
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *ProductRequest) (*ProductResponse, error) {
	if req == nil || req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}

	id, err := s.generateID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate product id: %w", err)
	}
	product, err := domain.NewProduct(id, req.Name, req.Description, req.Price)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.String("name", req.Name), zap.Error(err))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.logger.Info("Product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return mapProductToResponse(product), nil
}

func (s *productService) GetAllProducts(ctx context.Context) ([]*ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = mapProductToResponse(p)
	}
	return responses, nil
}

func mapProductToResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}
