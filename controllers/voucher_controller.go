package controllers

import (
	"net/http"

	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

// VoucherController handles HTTP requests for voucher operations.
type VoucherController struct {
	voucherService services.VoucherService
}

// NewVoucherController creates a new VoucherController.
func NewVoucherController(voucherService services.VoucherService) *VoucherController {
	return &VoucherController{voucherService: voucherService}
}

// CreateVoucher handles POST /vouchers (admin only).
func (vc *VoucherController) CreateVoucher(ctx *gin.Context) {
	var req models.CreateVoucherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	voucher, svcErr := vc.voucherService.CreateVoucher(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"voucher": voucher})
}

// ValidateVoucher handles POST /vouchers/validate.
func (vc *VoucherController) ValidateVoucher(ctx *gin.Context) {
	var req models.ValidateVoucherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	resp, svcErr := vc.voucherService.Validate(ctx.Request.Context(), req.Code, req.Subtotal)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// DeactivateVoucher handles DELETE /vouchers/:code (admin only).
func (vc *VoucherController) DeactivateVoucher(ctx *gin.Context) {
	code := ctx.Param("code")
	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Voucher code is required"})
		return
	}

	svcErr := vc.voucherService.DeactivateVoucher(ctx.Request.Context(), code)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Voucher deactivated"})
}

// ListVouchers handles GET /vouchers (admin only).
func (vc *VoucherController) ListVouchers(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	vouchers, total, svcErr := vc.voucherService.ListVouchers(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"vouchers": vouchers,
		"meta":     paginationMeta(page, limit, total),
	})
}
