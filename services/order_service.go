package services

import (
	"context"
	"fmt"

	"storefront-service/models"
	"storefront-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService exposes order reads and admin status transitions. Orders are
// never edited beyond their two status columns and the payment proof URL.
type OrderService interface {
	ListOrders(ctx context.Context, page, limit int) ([]models.Order, int64, *ServiceError)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, *ServiceError)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) *ServiceError
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) *ServiceError
}

type orderServiceImpl struct {
	repo   repository.OrderRepository
	logger *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(repo repository.OrderRepository, logger *zap.Logger) OrderService {
	return &orderServiceImpl{repo: repo, logger: logger}
}

// ListOrders returns paginated orders, newest first (admin).
func (s *orderServiceImpl) ListOrders(ctx context.Context, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list orders"}
	}
	return orders, total, nil
}

// GetByOrderNumber looks an order up by its human-facing number.
func (s *orderServiceImpl) GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, *ServiceError) {
	order, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to load order", zap.String("order_number", orderNumber), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load order"}
	}
	return order, nil
}

// UpdateOrderStatus transitions the fulfillment status (admin).
func (s *orderServiceImpl) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) *ServiceError {
	if !models.ValidOrderStatus(status) {
		return &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Invalid order status %q", status)}
	}

	if err := s.repo.UpdateOrderStatus(ctx, id, status); err != nil {
		if err == gorm.ErrRecordNotFound {
			return &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to update order status", zap.String("order_id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to update order status"}
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", id.String()),
		zap.String("status", status),
	)
	return nil
}

// UpdatePaymentStatus transitions the payment status (admin).
func (s *orderServiceImpl) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) *ServiceError {
	if !models.ValidPaymentStatus(status) {
		return &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Invalid payment status %q", status)}
	}

	if err := s.repo.UpdatePaymentStatus(ctx, id, status); err != nil {
		if err == gorm.ErrRecordNotFound {
			return &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to update payment status", zap.String("order_id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to update payment status"}
	}

	s.logger.Info("Payment status updated",
		zap.String("order_id", id.String()),
		zap.String("status", status),
	)
	return nil
}
