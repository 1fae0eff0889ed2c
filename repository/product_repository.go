package repository

import (
	"context"

	"storefront-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines read access to the catalog. The cart and checkout
// engine never mutate products.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindAvailable(ctx context.Context, page, limit int) ([]models.Product, int64, error)
	FindPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error)
	FindPaymentMethodByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error)
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository.
func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID retrieves a product with its variations preloaded in display order.
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variations", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_variations.created_at ASC")
		}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindAvailable retrieves paginated available products with variations.
func (r *GormProductRepository) FindAvailable(ctx context.Context, page, limit int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("available = ?", true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Variations", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_variations.created_at ASC")
		}).
		Offset(offset).
		Limit(limit).
		Order("featured DESC, created_at DESC").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// FindPaymentMethods retrieves active payment methods in display order.
func (r *GormProductRepository) FindPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sort_order ASC").
		Find(&methods).Error
	if err != nil {
		return nil, err
	}
	return methods, nil
}

// FindPaymentMethodByID retrieves a single active payment method.
func (r *GormProductRepository) FindPaymentMethodByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		First(&method, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &method, nil
}
