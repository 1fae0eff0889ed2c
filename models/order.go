package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order statuses. Orders are created as "new"/"pending" and afterwards mutated
// only by admin status transitions, never by the checkout engine.
const (
	OrderStatusNew        = "new"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Order is the immutable snapshot written at checkout submission.
// TotalPrice is the product subtotal; the grand total is
// max(0, TotalPrice-DiscountAmount) + ShippingFee.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`

	CustomerName  string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail string `gorm:"type:varchar(255);not null" json:"customer_email"`
	CustomerPhone string `gorm:"type:varchar(64);not null" json:"customer_phone"`

	ShippingAddress  string `gorm:"type:varchar(512);not null" json:"shipping_address"`
	ShippingBarangay string `gorm:"type:varchar(128);not null" json:"shipping_barangay"`
	ShippingCity     string `gorm:"type:varchar(128);not null" json:"shipping_city"`
	ShippingState    string `gorm:"type:varchar(128);not null" json:"shipping_state"`
	ShippingZipCode  string `gorm:"type:varchar(32);not null" json:"shipping_zip_code"`
	ShippingLocation string `gorm:"type:varchar(32);not null" json:"shipping_location"`

	TotalPrice     float64 `gorm:"not null" json:"total_price"`
	ShippingFee    float64 `gorm:"not null" json:"shipping_fee"`
	DiscountAmount float64 `gorm:"not null;default:0" json:"discount_amount"`
	VoucherCode    *string `gorm:"type:varchar(64)" json:"voucher_code"`

	PaymentMethodID   *uuid.UUID `gorm:"type:uuid" json:"payment_method_id"`
	PaymentMethodName *string    `gorm:"type:varchar(128)" json:"payment_method_name"`
	PaymentProofURL   *string    `gorm:"type:varchar(1024)" json:"payment_proof_url"`
	ContactMethod     *string    `gorm:"type:varchar(32)" json:"contact_method"`
	Notes             *string    `gorm:"type:text" json:"notes"`

	OrderStatus   string `gorm:"type:varchar(20);not null;default:'new'" json:"order_status"`
	PaymentStatus string `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
}

// OrderItem is a line snapshot: product and variation names are copied so the
// order survives catalog edits.
type OrderItem struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID        uuid.UUID  `gorm:"type:uuid;not null" json:"product_id"`
	ProductName      string     `gorm:"type:varchar(255);not null" json:"product_name"`
	VariationID      *uuid.UUID `gorm:"type:uuid" json:"variation_id"`
	VariationName    *string    `gorm:"type:varchar(255)" json:"variation_name"`
	Quantity         int        `gorm:"not null" json:"quantity"`
	Price            float64    `gorm:"not null" json:"price"`
	Total            float64    `gorm:"not null" json:"total"`
	PurityPercentage *float64   `json:"purity_percentage"`
	IsCompleteSet    bool       `gorm:"not null;default:false" json:"is_complete_set"`
}

// ValidOrderStatus reports whether s is a recognized order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusNew, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a recognized payment status.
func ValidPaymentStatus(s string) bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid
}

// OrderPlacedEvent is published (best-effort) to Kafka and SNS after an order
// snapshot has been persisted.
type OrderPlacedEvent struct {
	Event       string    `json:"event"` // "order.placed"
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	SessionID   string    `json:"session_id"`
	GrandTotal  float64   `json:"grand_total"`
	Timestamp   time.Time `json:"timestamp"`
}
