package services_test

import (
	"strings"
	"testing"

	"storefront-service/models"
	"storefront-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func sampleOrder() *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		OrderNumber: "TPL#008",

		CustomerName:  "Juan Dela Cruz",
		CustomerEmail: "juan@example.com",
		CustomerPhone: "09171234567",

		ShippingAddress:  "123 Rizal St",
		ShippingBarangay: "Barangay Uno",
		ShippingCity:     "Quezon City",
		ShippingState:    "Metro Manila",
		ShippingZipCode:  "1100",
		ShippingLocation: "NCR",

		TotalPrice:     5000,
		ShippingFee:    150,
		DiscountAmount: 1000,
		VoucherCode:    strPtr("PEPPY20"),

		OrderItems: []models.OrderItem{
			{
				ProductName:      "BPC-157",
				VariationName:    strPtr("5mg"),
				Quantity:         2,
				Price:            1500,
				Total:            3000,
				PurityPercentage: floatPtr(99.2),
			},
			{
				ProductName: "TB-500",
				Quantity:    1,
				Price:       2000,
				Total:       2000,
			},
		},
	}
}

func newTestMessageBuilder() *services.OrderMessageBuilder {
	return services.NewOrderMessageBuilder("The Peppy Lab", "https://t.me/anntpl", "Asia/Manila")
}

func TestOrderMessage_FullTemplate(t *testing.T) {
	builder := newTestMessageBuilder()
	method := &models.PaymentMethod{Name: "GCash", AccountNumber: "0917 123 4567"}

	message := builder.Build(sampleOrder(), method)

	assert.True(t, strings.HasPrefix(message, "✨The Peppy Lab - NEW ORDER"))
	assert.Contains(t, message, "📅 ORDER DATE & TIME")
	assert.Contains(t, message, "🔖 ORDER NUMBER\nTPL#008")
	assert.Contains(t, message, "Name: Juan Dela Cruz")
	assert.Contains(t, message, "Quezon City, Metro Manila 1100")
	assert.Contains(t, message, "• BPC-157 (5mg) x2 - ₱3,000")
	assert.Contains(t, message, "  Purity: 99.2%")
	assert.Contains(t, message, "• TB-500 x1 - ₱2,000")
	assert.Contains(t, message, "Product Total: ₱5,000")
	assert.Contains(t, message, "Discount (PEPPY20): -₱1,000")
	assert.Contains(t, message, "Shipping Fee: ₱150 (NCR)")
	assert.Contains(t, message, "Grand Total: ₱4,150")
	assert.Contains(t, message, "💳 PAYMENT METHOD\nGCash\nAccount: 0917 123 4567")
	assert.Contains(t, message, "Telegram: https://t.me/anntpl")
	assert.Contains(t, message, "📋 ORDER NUMBER: #TPL#008")
	assert.True(t, strings.HasSuffix(message, "Please confirm this order. Thank you!"))
}

func TestOrderMessage_NoDiscountLineWithoutVoucher(t *testing.T) {
	builder := newTestMessageBuilder()
	order := sampleOrder()
	order.VoucherCode = nil
	order.DiscountAmount = 0

	message := builder.Build(order, nil)

	assert.NotContains(t, message, "Discount")
	assert.Contains(t, message, "Product Total: ₱5,000\n\nShipping Fee: ₱150", "Discount slot stays as a blank line")
	assert.Contains(t, message, "Grand Total: ₱5,150")
	assert.Contains(t, message, "💳 PAYMENT METHOD\nN/A")
}

func TestOrderMessage_LocationLabel(t *testing.T) {
	builder := newTestMessageBuilder()
	order := sampleOrder()
	order.ShippingLocation = "VISAYAS_MINDANAO"
	order.ShippingFee = 250

	message := builder.Build(order, nil)

	assert.Contains(t, message, "Shipping Fee: ₱250 (VISAYAS & MINDANAO)")
}

func TestFormatPeso(t *testing.T) {
	assert.Equal(t, "₱0", services.FormatPeso(0))
	assert.Equal(t, "₱150", services.FormatPeso(150))
	assert.Equal(t, "₱4,150", services.FormatPeso(4150))
	assert.Equal(t, "₱1,234,568", services.FormatPeso(1234567.6))
	assert.Equal(t, "-₱500", services.FormatPeso(-500))
}

func TestLocationLabel(t *testing.T) {
	assert.Equal(t, "NCR", services.LocationLabel("NCR"))
	assert.Equal(t, "VISAYAS & MINDANAO", services.LocationLabel("VISAYAS_MINDANAO"))
}
