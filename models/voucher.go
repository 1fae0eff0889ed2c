package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoucherType represents the kind of discount a voucher provides.
type VoucherType string

const (
	VoucherTypePercentage VoucherType = "percentage"
	VoucherTypeFixed      VoucherType = "fixed"
)

// Reasons a voucher can fail validation.
const (
	VoucherReasonNotFound      = "not_found"
	VoucherReasonInactive      = "inactive"
	VoucherReasonExpired       = "expired"
	VoucherReasonUsageExceeded = "usage_exceeded"
	VoucherReasonBelowMinSpend = "below_min_spend"
)

// Voucher is a discount code stored in Postgres, redeemable once per checkout.
type Voucher struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code          string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	DiscountType  VoucherType    `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue float64        `gorm:"not null" json:"discount_value"`
	MinSpend      float64        `gorm:"not null;default:0" json:"min_spend"`
	UsageLimit    *int           `json:"usage_limit"` // nil = unlimited
	TimesUsed     int            `gorm:"not null;default:0" json:"times_used"`
	IsActive      bool           `gorm:"not null;default:true" json:"is_active"`
	ExpiresAt     *time.Time     `json:"expires_at"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreateVoucherRequest is the payload for creating a new voucher (admin).
type CreateVoucherRequest struct {
	Code          string      `json:"code" binding:"required,min=3,max=64"`
	DiscountType  VoucherType `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue float64     `json:"discount_value" binding:"required,gt=0"`
	MinSpend      float64     `json:"min_spend" binding:"gte=0"`
	UsageLimit    *int        `json:"usage_limit" binding:"omitempty,gt=0"`
	ExpiresAt     *time.Time  `json:"expires_at"`
}

// ValidateVoucherRequest is the payload for validating a code against the
// current cart subtotal.
type ValidateVoucherRequest struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"required,gt=0"`
}

// ValidateVoucherResponse reports the outcome of a validation attempt.
type ValidateVoucherResponse struct {
	Valid          bool        `json:"valid"`
	Code           string      `json:"code"`
	DiscountType   VoucherType `json:"discount_type,omitempty"`
	DiscountAmount float64     `json:"discount_amount"`
	Reason         string      `json:"reason,omitempty"`
	Message        string      `json:"message,omitempty"`
}

// AppliedVoucher is the discount held against an in-progress checkout. It is
// never persisted against the cart.
type AppliedVoucher struct {
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discount_amount"`
}
