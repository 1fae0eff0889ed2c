package repository

import (
	"context"
	"strings"

	"storefront-service/models"

	"gorm.io/gorm"
)

// VoucherRepository defines the interface for voucher data access.
type VoucherRepository interface {
	Create(ctx context.Context, voucher *models.Voucher) error
	FindByCode(ctx context.Context, code string) (*models.Voucher, error)
	IncrementTimesUsed(ctx context.Context, code string) error
	Deactivate(ctx context.Context, code string) error
	FindAll(ctx context.Context, page, limit int) ([]models.Voucher, int64, error)
}

// GormVoucherRepository implements VoucherRepository using GORM.
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository.
func NewGormVoucherRepository(db *gorm.DB) VoucherRepository {
	return &GormVoucherRepository{db: db}
}

// Create inserts a new voucher.
func (r *GormVoucherRepository) Create(ctx context.Context, voucher *models.Voucher) error {
	return r.db.WithContext(ctx).Create(voucher).Error
}

// FindByCode retrieves a voucher by code (case-insensitive). Active and
// inactive vouchers are both returned; the service layer distinguishes them.
func (r *GormVoucherRepository) FindByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.WithContext(ctx).
		Where("LOWER(code) = ?", strings.ToLower(code)).
		First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

// IncrementTimesUsed atomically increments the usage counter in the database,
// never via a read-then-write.
func (r *GormVoucherRepository) IncrementTimesUsed(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).
		Model(&models.Voucher{}).
		Where("LOWER(code) = ?", strings.ToLower(code)).
		UpdateColumn("times_used", gorm.Expr("times_used + 1")).
		Error
}

// Deactivate sets is_active = false.
func (r *GormVoucherRepository) Deactivate(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Voucher{}).
		Where("LOWER(code) = ?", strings.ToLower(code)).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindAll retrieves paginated vouchers, newest first.
func (r *GormVoucherRepository) FindAll(ctx context.Context, page, limit int) ([]models.Voucher, int64, error) {
	var vouchers []models.Voucher
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Voucher{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&vouchers).Error; err != nil {
		return nil, 0, err
	}

	return vouchers, total, nil
}
