package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- Mock voucher repository ---

type mockVoucherRepo struct {
	vouchers map[string]*models.Voucher
}

func newMockVoucherRepo() *mockVoucherRepo {
	return &mockVoucherRepo{vouchers: make(map[string]*models.Voucher)}
}

func (m *mockVoucherRepo) Create(_ context.Context, v *models.Voucher) error {
	key := strings.ToUpper(v.Code)
	if _, exists := m.vouchers[key]; exists {
		return errors.New(`duplicate key value violates unique constraint "idx_vouchers_code"`)
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	m.vouchers[key] = v
	return nil
}

func (m *mockVoucherRepo) FindByCode(_ context.Context, code string) (*models.Voucher, error) {
	v, ok := m.vouchers[strings.ToUpper(code)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (m *mockVoucherRepo) IncrementTimesUsed(_ context.Context, code string) error {
	v, ok := m.vouchers[strings.ToUpper(code)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.TimesUsed++
	return nil
}

func (m *mockVoucherRepo) Deactivate(_ context.Context, code string) error {
	v, ok := m.vouchers[strings.ToUpper(code)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.IsActive = false
	return nil
}

func (m *mockVoucherRepo) FindAll(_ context.Context, _, _ int) ([]models.Voucher, int64, error) {
	var result []models.Voucher
	for _, v := range m.vouchers {
		result = append(result, *v)
	}
	return result, int64(len(result)), nil
}

// --- Helpers ---

func newTestVoucherService(repo repository.VoucherRepository) services.VoucherService {
	logger, _ := zap.NewDevelopment()
	return services.NewVoucherService(repo, logger)
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func activeVoucher(code string, voucherType models.VoucherType, value, minSpend float64) *models.Voucher {
	return &models.Voucher{
		ID:            uuid.New(),
		Code:          code,
		DiscountType:  voucherType,
		DiscountValue: value,
		MinSpend:      minSpend,
		IsActive:      true,
	}
}

// --- Tests ---

func TestVoucher_Validate_Percentage(t *testing.T) {
	repo := newMockVoucherRepo()
	svc := newTestVoucherService(repo)
	_ = repo.Create(context.Background(), activeVoucher("PEPPY20", models.VoucherTypePercentage, 20, 0))

	resp, svcErr := svc.Validate(context.Background(), "PEPPY20", 5000)

	assert.Nil(t, svcErr)
	assert.True(t, resp.Valid)
	assert.Equal(t, 1000.0, resp.DiscountAmount, "20% of 5000")
}

func TestVoucher_Validate_FixedCappedAtSubtotal(t *testing.T) {
	repo := newMockVoucherRepo()
	svc := newTestVoucherService(repo)
	_ = repo.Create(context.Background(), activeVoucher("BIG", models.VoucherTypeFixed, 800, 0))

	resp, svcErr := svc.Validate(context.Background(), "BIG", 500)

	assert.Nil(t, svcErr)
	assert.True(t, resp.Valid)
	assert.Equal(t, 500.0, resp.DiscountAmount)
}

func TestVoucher_Validate_CaseInsensitive(t *testing.T) {
	repo := newMockVoucherRepo()
	svc := newTestVoucherService(repo)
	_ = repo.Create(context.Background(), activeVoucher("PEPPY20", models.VoucherTypePercentage, 20, 0))

	resp, svcErr := svc.Validate(context.Background(), "peppy20", 1000)

	assert.Nil(t, svcErr)
	assert.True(t, resp.Valid)
}

func TestVoucher_Validate_NotFound(t *testing.T) {
	svc := newTestVoucherService(newMockVoucherRepo())

	resp, svcErr := svc.Validate(context.Background(), "GHOST", 1000)

	assert.Nil(t, svcErr)
	assert.False(t, resp.Valid)
	assert.Equal(t, models.VoucherReasonNotFound, resp.Reason)
}

func TestVoucher_Validate_Inactive(t *testing.T) {
	repo := newMockVoucherRepo()
	svc := newTestVoucherService(repo)
	v := activeVoucher("DEAD", models.VoucherTypeFixed, 100, 0)
	v.IsActive = false
	_ = repo.Create(context.Background(), v)

	resp, svcErr := svc.Validate(context.Background(), "DEAD", 1000)

	assert.Nil(t, svcErr)
	assert.False(t, resp.Valid)
	assert.Equal(t, models.VoucherReasonInactive, resp.Reason)
}

func TestVoucher_Validate_Expired(t *testing.T) {
	repo := newMockVoucherRepo()
	svc := newTestVoucherService(repo)
	v := activeVoucher("OLD", models.VoucherTypeFixed, 100, 0)
	v.ExpiresAt = timePtr(time.Now().Add(-time.Hour))
	_ = repo.Create(context.Background(), v)

	resp, svcErr := svc.Validate(context.Background(), "OLD", 1000)

	assert.Nil(t, svcErr)
	assert.False(t, resp.Valid)
	assert.Equal(t, models.VoucherReasonExpired, resp.Reason)
}

func TestVoucher_Validate_UsageExceeded(t *testing.T) {
	repo := newMockVoucherRepo()
	svc := newTestVoucherService(repo)
	v := activeVoucher("LIMITED", models.VoucherTypeFixed, 100, 0)
	v.UsageLimit = intPtr(3)
	v.TimesUsed = 3
	_ = repo.Create(context.Background(), v)

	resp, svcErr := svc.Validate(context.Background(), "LIMITED", 1000)

	assert.Nil(t, svcErr)
	assert.False(t, resp.Valid)
	assert.Equal(t, models.VoucherReasonUsageExceeded, resp.Reason)
}

func TestVoucher_Validate_BelowMinSpend(t *testing.T) {
	repo := newMockVoucherRepo()
	svc := newTestVoucherService(repo)
	_ = repo.Create(context.Background(), activeVoucher("MIN2K", models.VoucherTypePercentage, 10, 2000))

	resp, svcErr := svc.Validate(context.Background(), "MIN2K", 1500)

	assert.Nil(t, svcErr)
	assert.False(t, resp.Valid)
	assert.Equal(t, models.VoucherReasonBelowMinSpend, resp.Reason)
}

func TestVoucher_Redeem_IncrementsUsage(t *testing.T) {
	repo := newMockVoucherRepo()
	svc := newTestVoucherService(repo)
	_ = repo.Create(context.Background(), activeVoucher("PEPPY20", models.VoucherTypePercentage, 20, 0))

	assert.NoError(t, svc.Redeem(context.Background(), "PEPPY20"))
	assert.Equal(t, 1, repo.vouchers["PEPPY20"].TimesUsed)
}

func TestVoucher_Create_UppercasesCode(t *testing.T) {
	repo := newMockVoucherRepo()
	svc := newTestVoucherService(repo)

	voucher, svcErr := svc.CreateVoucher(context.Background(), &models.CreateVoucherRequest{
		Code:          "peppy20",
		DiscountType:  models.VoucherTypePercentage,
		DiscountValue: 20,
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, "PEPPY20", voucher.Code)
}

func TestVoucher_Create_Duplicate(t *testing.T) {
	repo := newMockVoucherRepo()
	svc := newTestVoucherService(repo)
	_ = repo.Create(context.Background(), activeVoucher("PEPPY20", models.VoucherTypePercentage, 20, 0))

	_, svcErr := svc.CreateVoucher(context.Background(), &models.CreateVoucherRequest{
		Code:          "PEPPY20",
		DiscountType:  models.VoucherTypePercentage,
		DiscountValue: 20,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
}

func TestVoucher_Create_PercentageOver100(t *testing.T) {
	svc := newTestVoucherService(newMockVoucherRepo())

	_, svcErr := svc.CreateVoucher(context.Background(), &models.CreateVoucherRequest{
		Code:          "TOOMUCH",
		DiscountType:  models.VoucherTypePercentage,
		DiscountValue: 150,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestVoucher_Deactivate_NotFound(t *testing.T) {
	svc := newTestVoucherService(newMockVoucherRepo())

	svcErr := svc.DeactivateVoucher(context.Background(), "GHOST")

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}
