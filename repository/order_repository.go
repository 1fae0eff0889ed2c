package repository

import (
	"context"
	"strings"

	"storefront-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindLatest(ctx context.Context) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error)
	UpdatePaymentProofURL(ctx context.Context, id uuid.UUID, proofURL string) error
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) error
}

// IsDuplicateOrderNumber reports whether err is the unique-index violation on
// order_number. The order number generator retries on this.
func IsDuplicateOrderNumber(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order snapshot together with its items.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindLatest retrieves the most recently created order, if any.
func (r *GormOrderRepository) FindLatest(ctx context.Context) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber retrieves an order with its items by its human-facing number.
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindAll retrieves paginated orders, newest first.
func (r *GormOrderRepository) FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("OrderItems").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdatePaymentProofURL patches the proof URL onto an existing order.
func (r *GormOrderRepository) UpdatePaymentProofURL(ctx context.Context, id uuid.UUID, proofURL string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_proof_url", proofURL).
		Error
}

// UpdateOrderStatus transitions the fulfillment status.
func (r *GormOrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.updateStatusColumn(ctx, id, "order_status", status)
}

// UpdatePaymentStatus transitions the payment status.
func (r *GormOrderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.updateStatusColumn(ctx, id, "payment_status", status)
}

func (r *GormOrderRepository) updateStatusColumn(ctx context.Context, id uuid.UUID, column, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update(column, status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
