package services

import (
	"context"

	"storefront-service/models"
	"storefront-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductService exposes the read-only catalog surface backing the storefront.
type ProductService interface {
	ListProducts(ctx context.Context, page, limit int) ([]models.Product, int64, *ServiceError)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError)
	ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, *ServiceError)
}

type productServiceImpl struct {
	repo   repository.ProductRepository
	logger *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repository.ProductRepository, logger *zap.Logger) ProductService {
	return &productServiceImpl{repo: repo, logger: logger}
}

// ListProducts returns paginated available products.
func (s *productServiceImpl) ListProducts(ctx context.Context, page, limit int) ([]models.Product, int64, *ServiceError) {
	products, total, err := s.repo.FindAvailable(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list products"}
	}
	return products, total, nil
}

// GetProduct returns a single product with its variations.
func (s *productServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to load product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load product"}
	}
	return product, nil
}

// ListPaymentMethods returns the active payment methods in display order.
func (s *productServiceImpl) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, *ServiceError) {
	methods, err := s.repo.FindPaymentMethods(ctx)
	if err != nil {
		s.logger.Error("Failed to list payment methods", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list payment methods"}
	}
	return methods, nil
}
