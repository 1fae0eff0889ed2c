package services_test

import (
	"context"
	"testing"

	"storefront-service/models"
	"storefront-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestOrderService(repo *mockOrderRepo) services.OrderService {
	logger, _ := zap.NewDevelopment()
	return services.NewOrderService(repo, logger)
}

func seededOrder(repo *mockOrderRepo, number string) *models.Order {
	order := &models.Order{ID: uuid.New(), OrderNumber: number, OrderStatus: models.OrderStatusNew, PaymentStatus: models.PaymentStatusPending}
	repo.orders = append(repo.orders, order)
	return order
}

func TestOrder_GetByOrderNumber(t *testing.T) {
	repo := newMockOrderRepo()
	seededOrder(repo, "TPL#004")
	svc := newTestOrderService(repo)

	order, svcErr := svc.GetByOrderNumber(context.Background(), "TPL#004")
	assert.Nil(t, svcErr)
	assert.Equal(t, "TPL#004", order.OrderNumber)

	_, svcErr = svc.GetByOrderNumber(context.Background(), "TPL#999")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestOrder_UpdateOrderStatus(t *testing.T) {
	repo := newMockOrderRepo()
	order := seededOrder(repo, "TPL#004")
	svc := newTestOrderService(repo)

	svcErr := svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusShipped)
	assert.Nil(t, svcErr)
	assert.Equal(t, models.OrderStatusShipped, order.OrderStatus)
}

func TestOrder_UpdateOrderStatus_Invalid(t *testing.T) {
	repo := newMockOrderRepo()
	order := seededOrder(repo, "TPL#004")
	svc := newTestOrderService(repo)

	svcErr := svc.UpdateOrderStatus(context.Background(), order.ID, "teleported")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestOrder_UpdateOrderStatus_NotFound(t *testing.T) {
	svc := newTestOrderService(newMockOrderRepo())

	svcErr := svc.UpdateOrderStatus(context.Background(), uuid.New(), models.OrderStatusProcessing)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestOrder_UpdatePaymentStatus(t *testing.T) {
	repo := newMockOrderRepo()
	order := seededOrder(repo, "TPL#005")
	svc := newTestOrderService(repo)

	svcErr := svc.UpdatePaymentStatus(context.Background(), order.ID, models.PaymentStatusPaid)
	assert.Nil(t, svcErr)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)

	svcErr = svc.UpdatePaymentStatus(context.Background(), order.ID, "refunded")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestOrder_ListOrders(t *testing.T) {
	repo := newMockOrderRepo()
	seededOrder(repo, "TPL#001")
	seededOrder(repo, "TPL#002")
	svc := newTestOrderService(repo)

	orders, total, svcErr := svc.ListOrders(context.Background(), 1, 10)
	assert.Nil(t, svcErr)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 2)
	assert.Equal(t, "TPL#002", orders[0].OrderNumber, "Newest first")
}
