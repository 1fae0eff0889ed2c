package controllers

import (
	"io"
	"net/http"

	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

// CheckoutController handles HTTP requests for the checkout wizard.
type CheckoutController struct {
	checkoutService services.CheckoutService
	maxProofSize    int64
}

// NewCheckoutController creates a new CheckoutController.
func NewCheckoutController(checkoutService services.CheckoutService, maxProofSize int64) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
		maxProofSize:    maxProofSize,
	}
}

// GetSession handles GET /checkout.
func (cc *CheckoutController) GetSession(ctx *gin.Context) {
	sessionID, err := middleware.GetSessionID(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing session ID"})
		return
	}

	session, totals, svcErr := cc.checkoutService.GetSession(ctx.Request.Context(), sessionID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"checkout": session, "totals": totals})
}

// SubmitDetails handles POST /checkout/details.
func (cc *CheckoutController) SubmitDetails(ctx *gin.Context) {
	sessionID, err := middleware.GetSessionID(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing session ID"})
		return
	}

	var req models.SubmitDetailsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	session, svcErr := cc.checkoutService.SubmitDetails(ctx.Request.Context(), sessionID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"checkout": session})
}

// ApplyVoucher handles POST /checkout/voucher.
func (cc *CheckoutController) ApplyVoucher(ctx *gin.Context) {
	sessionID, err := middleware.GetSessionID(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing session ID"})
		return
	}

	var req models.ApplyVoucherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, totals, svcErr := cc.checkoutService.ApplyVoucher(ctx.Request.Context(), sessionID, req.Code)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"voucher": result, "totals": totals})
}

// RemoveVoucher handles DELETE /checkout/voucher.
func (cc *CheckoutController) RemoveVoucher(ctx *gin.Context) {
	sessionID, err := middleware.GetSessionID(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing session ID"})
		return
	}

	totals, svcErr := cc.checkoutService.RemoveVoucher(ctx.Request.Context(), sessionID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"totals": totals})
}

// BackToDetails handles POST /checkout/back.
func (cc *CheckoutController) BackToDetails(ctx *gin.Context) {
	sessionID, err := middleware.GetSessionID(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing session ID"})
		return
	}

	session, svcErr := cc.checkoutService.BackToDetails(ctx.Request.Context(), sessionID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"checkout": session})
}

// PlaceOrder handles POST /checkout/order. The payload arrives as multipart
// form data with a mandatory payment_proof file part.
func (cc *CheckoutController) PlaceOrder(ctx *gin.Context) {
	sessionID, err := middleware.GetSessionID(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing session ID"})
		return
	}

	var req models.PlaceOrderRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	proof, svcErr := cc.readProof(ctx)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	resp, svcErr := cc.checkoutService.PlaceOrder(ctx.Request.Context(), sessionID, &req, proof)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// readProof extracts the payment_proof file part. The part is required; size
// is capped before the body is read into memory.
func (cc *CheckoutController) readProof(ctx *gin.Context) (*models.PaymentProof, *services.ServiceError) {
	fileHeader, err := ctx.FormFile("payment_proof")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, &services.ServiceError{StatusCode: 400, Message: "Payment proof is required"}
		}
		return nil, &services.ServiceError{StatusCode: 400, Message: "Invalid payment proof upload"}
	}

	if cc.maxProofSize > 0 && fileHeader.Size > cc.maxProofSize {
		return nil, &services.ServiceError{StatusCode: 400, Message: "Payment proof exceeds the size limit"}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, &services.ServiceError{StatusCode: 400, Message: "Invalid payment proof upload"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &services.ServiceError{StatusCode: 400, Message: "Failed to read payment proof"}
	}

	return &models.PaymentProof{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Data:        data,
	}, nil
}
