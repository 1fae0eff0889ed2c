package controllers

import (
	"net/http"

	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderController handles HTTP requests for order tracking and admin status
// transitions.
type OrderController struct {
	orderService services.OrderService
}

// NewOrderController creates a new OrderController.
func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// TrackOrder handles GET /orders/track/:number.
func (oc *OrderController) TrackOrder(ctx *gin.Context) {
	number := ctx.Param("number")
	if number == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Order number is required"})
		return
	}

	order, svcErr := oc.orderService.GetByOrderNumber(ctx.Request.Context(), number)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// ListOrders handles GET /orders (admin only).
func (oc *OrderController) ListOrders(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	orders, total, svcErr := oc.orderService.ListOrders(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"meta":   paginationMeta(page, limit, total),
	})
}

// UpdateOrderStatus handles PATCH /orders/:id/status (admin only).
func (oc *OrderController) UpdateOrderStatus(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := oc.orderService.UpdateOrderStatus(ctx.Request.Context(), id, req.Status); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}

// UpdatePaymentStatus handles PATCH /orders/:id/payment-status (admin only).
func (oc *OrderController) UpdatePaymentStatus(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := oc.orderService.UpdatePaymentStatus(ctx.Request.Context(), id, req.Status); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Payment status updated"})
}
