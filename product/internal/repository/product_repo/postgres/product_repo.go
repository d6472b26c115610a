package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/duclongbox/Microservices-E-commerce-API-Backend/product/internal/domain"
	"github.com/duclongbox/Microservices-E-commerce-API-Backend/product/internal/repository/product_repo"
)

type pgProductRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewProductRepository(db *sql.DB, l *zap.Logger) product_repo.ProductRepository {
	return &pgProductRepository{db: db, logger: l}
}

func (r *pgProductRepository) Save(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (id, name, description, price, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, product.ID, product.Name, product.Description, product.Price, product.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to save product", zap.String("product_id", product.ID), zap.Error(err))
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

func (r *pgProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT id, name, description, price, created_at FROM products ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p := &domain.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return products, nil
}
