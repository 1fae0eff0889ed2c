package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront-service/models"
	"storefront-service/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VoucherService defines the voucher business logic. Validation never mutates
// the voucher; usage is counted separately via Redeem once an order exists.
type VoucherService interface {
	CreateVoucher(ctx context.Context, req *models.CreateVoucherRequest) (*models.Voucher, *ServiceError)
	Validate(ctx context.Context, code string, subtotal float64) (*models.ValidateVoucherResponse, *ServiceError)
	Redeem(ctx context.Context, code string) error
	DeactivateVoucher(ctx context.Context, code string) *ServiceError
	ListVouchers(ctx context.Context, page, limit int) ([]models.Voucher, int64, *ServiceError)
}

type voucherServiceImpl struct {
	repo   repository.VoucherRepository
	logger *zap.Logger
}

// NewVoucherService creates a new VoucherService.
func NewVoucherService(repo repository.VoucherRepository, logger *zap.Logger) VoucherService {
	return &voucherServiceImpl{repo: repo, logger: logger}
}

// CreateVoucher creates a new voucher (admin).
func (s *voucherServiceImpl) CreateVoucher(ctx context.Context, req *models.CreateVoucherRequest) (*models.Voucher, *ServiceError) {
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return nil, &ServiceError{StatusCode: 400, Message: "Expiry date must be in the future"}
	}
	if req.DiscountType == models.VoucherTypePercentage && req.DiscountValue > 100 {
		return nil, &ServiceError{StatusCode: 400, Message: "Percentage discount cannot exceed 100"}
	}

	voucher := &models.Voucher{
		Code:          strings.ToUpper(req.Code),
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinSpend:      req.MinSpend,
		UsageLimit:    req.UsageLimit,
		ExpiresAt:     req.ExpiresAt,
		IsActive:      true,
	}

	if err := s.repo.Create(ctx, voucher); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: 409, Message: "Voucher code already exists"}
		}
		s.logger.Error("Failed to create voucher", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create voucher"}
	}

	s.logger.Info("Voucher created",
		zap.String("code", voucher.Code),
		zap.String("type", string(voucher.DiscountType)),
	)
	return voucher, nil
}

// Validate checks a code against the current subtotal and computes the
// discount. The discount is always clamped to the subtotal.
func (s *voucherServiceImpl) Validate(ctx context.Context, code string, subtotal float64) (*models.ValidateVoucherResponse, *ServiceError) {
	voucher, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			s.logger.Error("Voucher lookup failed", zap.String("code", code), zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to validate voucher"}
		}
		return invalidVoucher(code, models.VoucherReasonNotFound, "Voucher not found"), nil
	}

	if !voucher.IsActive {
		return invalidVoucher(code, models.VoucherReasonInactive, "Voucher is no longer active"), nil
	}
	if voucher.ExpiresAt != nil && time.Now().After(*voucher.ExpiresAt) {
		return invalidVoucher(code, models.VoucherReasonExpired, "Voucher has expired"), nil
	}
	if voucher.UsageLimit != nil && voucher.TimesUsed >= *voucher.UsageLimit {
		return invalidVoucher(code, models.VoucherReasonUsageExceeded, "Voucher usage limit reached"), nil
	}
	if subtotal < voucher.MinSpend {
		return invalidVoucher(code, models.VoucherReasonBelowMinSpend,
			fmt.Sprintf("Minimum spend of %.2f required", voucher.MinSpend)), nil
	}

	var discount float64
	switch voucher.DiscountType {
	case models.VoucherTypePercentage:
		discount = subtotal * voucher.DiscountValue / 100
	case models.VoucherTypeFixed:
		discount = voucher.DiscountValue
	default:
		return nil, &ServiceError{StatusCode: 500, Message: "Unknown voucher type"}
	}
	if discount > subtotal {
		discount = subtotal
	}

	return &models.ValidateVoucherResponse{
		Valid:          true,
		Code:           voucher.Code,
		DiscountType:   voucher.DiscountType,
		DiscountAmount: discount,
		Message:        "Voucher applied successfully",
	}, nil
}

// Redeem increments the usage counter. Called best-effort after an order has
// been persisted; the order stands even if this fails.
func (s *voucherServiceImpl) Redeem(ctx context.Context, code string) error {
	return s.repo.IncrementTimesUsed(ctx, code)
}

// DeactivateVoucher deactivates a voucher by code (admin).
func (s *voucherServiceImpl) DeactivateVoucher(ctx context.Context, code string) *ServiceError {
	if err := s.repo.Deactivate(ctx, code); err != nil {
		if err == gorm.ErrRecordNotFound {
			return &ServiceError{StatusCode: 404, Message: "Voucher not found"}
		}
		s.logger.Error("Failed to deactivate voucher", zap.String("code", code), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to deactivate voucher"}
	}

	s.logger.Info("Voucher deactivated", zap.String("code", code))
	return nil
}

// ListVouchers returns paginated vouchers (admin).
func (s *voucherServiceImpl) ListVouchers(ctx context.Context, page, limit int) ([]models.Voucher, int64, *ServiceError) {
	vouchers, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list vouchers", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list vouchers"}
	}
	return vouchers, total, nil
}

func invalidVoucher(code, reason, message string) *models.ValidateVoucherResponse {
	return &models.ValidateVoucherResponse{
		Valid:   false,
		Code:    code,
		Reason:  reason,
		Message: message,
	}
}
