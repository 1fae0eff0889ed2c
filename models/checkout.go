package models

import "time"

// Checkout wizard steps. The flow is details -> payment -> confirmation, with
// payment -> details allowed; confirmation is terminal for the session.
const (
	CheckoutStepDetails      = "details"
	CheckoutStepPayment      = "payment"
	CheckoutStepConfirmation = "confirmation"
)

// CustomerDetails are the fields collected on the details step. All of them
// must be non-empty before the wizard advances to payment.
type CustomerDetails struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address" binding:"required"`
	Barangay string `json:"barangay" binding:"required"`
	City     string `json:"city" binding:"required"`
	State    string `json:"state" binding:"required"`
	ZipCode  string `json:"zip_code" binding:"required"`
}

// CheckoutSession is the per-session wizard state persisted in Redis.
type CheckoutSession struct {
	SessionID        string          `json:"session_id"`
	Step             string          `json:"step"`
	Details          CustomerDetails `json:"details"`
	ShippingLocation string          `json:"shipping_location"`
	Voucher          *AppliedVoucher `json:"voucher,omitempty"`

	// Set once the order has been placed.
	OrderNumber  string    `json:"order_number,omitempty"`
	OrderMessage string    `json:"order_message,omitempty"`
	ContactURL   string    `json:"contact_url,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SubmitDetailsRequest carries the details step plus the mandatory shipping
// location selection.
type SubmitDetailsRequest struct {
	CustomerDetails
	ShippingLocation string `json:"shipping_location" binding:"required"`
}

// ApplyVoucherRequest applies a voucher code to the in-progress checkout.
type ApplyVoucherRequest struct {
	Code string `json:"code" binding:"required"`
}

// PlaceOrderRequest carries the payment step fields. The payment proof image
// arrives as a multipart file alongside this payload.
type PlaceOrderRequest struct {
	PaymentMethodID string `form:"payment_method_id" binding:"required"`
	ContactMethod   string `form:"contact_method" binding:"required"`
	Notes           string `form:"notes"`
}

// PaymentProof is the uploaded proof-of-payment image.
type PaymentProof struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}

// CheckoutTotals is the pricing breakdown shown on every checkout step.
type CheckoutTotals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	ShippingFee    float64 `json:"shipping_fee"`
	GrandTotal     float64 `json:"grand_total"`
}

// PlaceOrderResponse is returned after a successful submission.
type PlaceOrderResponse struct {
	OrderNumber  string         `json:"order_number"`
	OrderMessage string         `json:"order_message"`
	ContactURL   string         `json:"contact_url"`
	Totals       CheckoutTotals `json:"totals"`
	ProofURL     *string        `json:"payment_proof_url"`
}

// ShippingLocationInfo is one entry of the configured shipping fee table.
type ShippingLocationInfo struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Fee   float64 `json:"fee"`
}
