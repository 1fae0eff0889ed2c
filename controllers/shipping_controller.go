package controllers

import (
	"net/http"

	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

// ShippingController handles HTTP requests for the shipping fee table.
type ShippingController struct {
	shippingService services.ShippingService
}

// NewShippingController creates a new ShippingController.
func NewShippingController(shippingService services.ShippingService) *ShippingController {
	return &ShippingController{shippingService: shippingService}
}

// ListLocations handles GET /shipping/locations.
func (sc *ShippingController) ListLocations(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"locations": sc.shippingService.Locations()})
}
