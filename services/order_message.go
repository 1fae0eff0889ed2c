package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront-service/models"
)

// OrderMessageBuilder renders the plain-text order summary customers paste
// into the Telegram chat when confirming an order.
type OrderMessageBuilder struct {
	storeName  string
	contactURL string
	loc        *time.Location
	now        func() time.Time
}

// NewOrderMessageBuilder creates a builder. Timestamps are rendered in the
// given timezone (e.g. Asia/Manila); an unknown zone falls back to UTC.
func NewOrderMessageBuilder(storeName, contactURL, timezone string) *OrderMessageBuilder {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &OrderMessageBuilder{
		storeName:  storeName,
		contactURL: contactURL,
		loc:        loc,
		now:        time.Now,
	}
}

// Build renders the full message for a persisted order snapshot. method may
// be nil when the customer skipped choosing one.
func (b *OrderMessageBuilder) Build(order *models.Order, method *models.PaymentMethod) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("✨%s - NEW ORDER\n\n", b.storeName))

	sb.WriteString("📅 ORDER DATE & TIME\n")
	sb.WriteString(b.now().In(b.loc).Format("Monday, January 2, 2006 at 3:04 PM"))
	sb.WriteString("\n\n")

	sb.WriteString("🔖 ORDER NUMBER\n")
	sb.WriteString(order.OrderNumber)
	sb.WriteString("\n\n")

	sb.WriteString("👤 CUSTOMER INFORMATION\n")
	sb.WriteString(fmt.Sprintf("Name: %s\n", order.CustomerName))
	sb.WriteString(fmt.Sprintf("Email: %s\n", order.CustomerEmail))
	sb.WriteString(fmt.Sprintf("Phone: %s\n\n", order.CustomerPhone))

	sb.WriteString("📦 SHIPPING ADDRESS\n")
	sb.WriteString(order.ShippingAddress + "\n")
	sb.WriteString(order.ShippingBarangay + "\n")
	sb.WriteString(fmt.Sprintf("%s, %s %s\n\n", order.ShippingCity, order.ShippingState, order.ShippingZipCode))

	sb.WriteString("🛒 ORDER DETAILS\n")
	itemLines := make([]string, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		line := "• " + item.ProductName
		if item.VariationName != nil {
			line += fmt.Sprintf(" (%s)", *item.VariationName)
		}
		line += fmt.Sprintf(" x%d - %s", item.Quantity, FormatPeso(item.Total))
		if item.PurityPercentage != nil && *item.PurityPercentage > 0 {
			line += fmt.Sprintf("\n  Purity: %s%%", trimFloat(*item.PurityPercentage))
		}
		itemLines = append(itemLines, line)
	}
	sb.WriteString(strings.Join(itemLines, "\n\n"))
	sb.WriteString("\n\n")

	grandTotal := order.TotalPrice - order.DiscountAmount
	if grandTotal < 0 {
		grandTotal = 0
	}
	grandTotal += order.ShippingFee

	sb.WriteString("💰 PRICING\n")
	sb.WriteString(fmt.Sprintf("Product Total: %s\n", FormatPeso(order.TotalPrice)))
	if order.VoucherCode != nil && order.DiscountAmount > 0 {
		sb.WriteString(fmt.Sprintf("Discount (%s): -%s\n", *order.VoucherCode, FormatPeso(order.DiscountAmount)))
	} else {
		// The discount slot stays in the layout even without a voucher.
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("Shipping Fee: %s (%s)\n", FormatPeso(order.ShippingFee), LocationLabel(order.ShippingLocation)))
	sb.WriteString(fmt.Sprintf("Grand Total: %s\n\n", FormatPeso(grandTotal)))

	sb.WriteString("💳 PAYMENT METHOD\n")
	if method != nil {
		sb.WriteString(method.Name + "\n")
		sb.WriteString(fmt.Sprintf("Account: %s\n", method.AccountNumber))
	} else {
		sb.WriteString("N/A\n")
	}
	sb.WriteString("\n")

	sb.WriteString("📸 PROOF OF PAYMENT\n")
	sb.WriteString("Please attach your payment screenshot when sending this message.\n\n")

	sb.WriteString("📱 CONTACT METHOD\n")
	sb.WriteString(fmt.Sprintf("Telegram: %s\n\n", b.contactURL))

	sb.WriteString(fmt.Sprintf("📋 ORDER NUMBER: #%s\n\n", order.OrderNumber))

	sb.WriteString("Please confirm this order. Thank you!")

	return sb.String()
}

// ContactURL returns the configured Telegram link shown on the confirmation
// step alongside the message.
func (b *OrderMessageBuilder) ContactURL() string {
	return b.contactURL
}

// FormatPeso renders an amount with the peso sign and thousands separators,
// no decimal places (₱4,150).
func FormatPeso(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	whole := strconv.FormatInt(int64(amount+0.5), 10)

	var grouped strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		grouped.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if grouped.Len() > 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteString(whole[i : i+3])
	}

	if neg {
		return "-₱" + grouped.String()
	}
	return "₱" + grouped.String()
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
