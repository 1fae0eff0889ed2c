package services_test

import (
	"context"
	"testing"

	"storefront-service/models"
	"storefront-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// --- Mock checkout store ---

type mockCheckoutStore struct {
	sessions map[string]*models.CheckoutSession
}

func newMockCheckoutStore() *mockCheckoutStore {
	return &mockCheckoutStore{sessions: make(map[string]*models.CheckoutSession)}
}

func (m *mockCheckoutStore) GetSession(_ context.Context, sessionID string) (*models.CheckoutSession, error) {
	return m.sessions[sessionID], nil
}

func (m *mockCheckoutStore) SaveSession(_ context.Context, session *models.CheckoutSession) error {
	m.sessions[session.SessionID] = session
	return nil
}

func (m *mockCheckoutStore) DeleteSession(_ context.Context, sessionID string) error {
	delete(m.sessions, sessionID)
	return nil
}

// --- Mock uploader / publishers ---

type mockUploader struct {
	keys []string
	fail bool
}

func (m *mockUploader) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	if m.fail {
		return "", assert.AnError
	}
	m.keys = append(m.keys, key)
	return "https://proofs.example.com/" + key, nil
}

type mockEventPublisher struct {
	keys []string
}

func (m *mockEventPublisher) Publish(_ context.Context, key string, _ []byte) error {
	m.keys = append(m.keys, key)
	return nil
}

type mockSNSPublisher struct {
	published []string
}

func (m *mockSNSPublisher) Publish(_ context.Context, topicArn string, _ []byte) error {
	m.published = append(m.published, topicArn)
	return nil
}

// --- Fixture ---

type checkoutFixture struct {
	svc          services.CheckoutService
	carts        services.CartService
	checkoutRepo *mockCheckoutStore
	orderRepo    *mockOrderRepo
	voucherRepo  *mockVoucherRepo
	uploader     *mockUploader
	events       *mockEventPublisher
	sns          *mockSNSPublisher
	product      *models.Product
	method       *models.PaymentMethod
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	cartStore := newMockCartStore()
	checkoutStore := newMockCheckoutStore()
	productRepo := newMockProductRepo()
	voucherRepo := newMockVoucherRepo()
	orderRepo := newMockOrderRepo()
	uploader := &mockUploader{}
	events := &mockEventPublisher{}
	sns := &mockSNSPublisher{}

	product := stockedProduct("BPC-157", 2500, 10)
	product.PurityPercentage = 99.2
	productRepo.products[product.ID] = product

	method := &models.PaymentMethod{ID: uuid.New(), Name: "GCash", AccountNumber: "0917 123 4567", Active: true}
	productRepo.methods[method.ID] = method

	_ = voucherRepo.Create(context.Background(), activeVoucher("PEPPY20", models.VoucherTypePercentage, 20, 0))

	carts := services.NewCartService(cartStore, productRepo, logger)
	vouchers := services.NewVoucherService(voucherRepo, logger)
	shipping := services.NewShippingService(map[string]float64{
		services.ShippingLocationNCR:             150,
		services.ShippingLocationLuzon:           200,
		services.ShippingLocationVisayasMindanao: 250,
	})

	svc := services.NewCheckoutService(services.CheckoutDeps{
		Store:        checkoutStore,
		Carts:        carts,
		Products:     productRepo,
		Vouchers:     vouchers,
		Shipping:     shipping,
		Orders:       orderRepo,
		OrderNumbers: services.NewOrderNumberGenerator(orderRepo, "TPL", logger),
		Message:      services.NewOrderMessageBuilder("The Peppy Lab", "https://t.me/anntpl", "Asia/Manila"),
		Uploader:     uploader,
		Events:       events,
		SNS:          sns,
		SNSTopicARN:  "arn:aws:sns:ap-southeast-1:000000000000:order-events",
		MaxProofSize: 5 * 1024 * 1024,
		Logger:       logger,
	})

	return &checkoutFixture{
		svc:          svc,
		carts:        carts,
		checkoutRepo: checkoutStore,
		orderRepo:    orderRepo,
		voucherRepo:  voucherRepo,
		uploader:     uploader,
		events:       events,
		sns:          sns,
		product:      product,
		method:       method,
	}
}

func sampleDetails() *models.SubmitDetailsRequest {
	return &models.SubmitDetailsRequest{
		CustomerDetails: models.CustomerDetails{
			FullName: "Juan Dela Cruz",
			Email:    "juan@example.com",
			Phone:    "09171234567",
			Address:  "123 Rizal St",
			Barangay: "Barangay Uno",
			City:     "Quezon City",
			State:    "Metro Manila",
			ZipCode:  "1100",
		},
		ShippingLocation: services.ShippingLocationNCR,
	}
}

func (f *checkoutFixture) fillCart(t *testing.T, sessionID string, quantity int) {
	t.Helper()
	_, svcErr := f.carts.AddItem(context.Background(), sessionID, &models.AddItemRequest{
		ProductID: f.product.ID,
		Quantity:  quantity,
	})
	assert.Nil(t, svcErr)
}

func (f *checkoutFixture) toPayment(t *testing.T, sessionID string) {
	t.Helper()
	f.fillCart(t, sessionID, 2)
	_, svcErr := f.svc.SubmitDetails(context.Background(), sessionID, sampleDetails())
	assert.Nil(t, svcErr)
}

func sampleProof() *models.PaymentProof {
	return &models.PaymentProof{
		FileName:    "gcash.png",
		ContentType: "image/png",
		Size:        1024,
		Data:        []byte("fake image bytes"),
	}
}

// --- Tests ---

func TestCheckout_GetSession_FreshStartsAtDetails(t *testing.T) {
	f := newCheckoutFixture(t)

	session, totals, svcErr := f.svc.GetSession(context.Background(), "s1")

	assert.Nil(t, svcErr)
	assert.Equal(t, models.CheckoutStepDetails, session.Step)
	assert.Equal(t, 0.0, totals.GrandTotal)
}

func TestCheckout_SubmitDetails_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, svcErr := f.svc.SubmitDetails(context.Background(), "s1", sampleDetails())

	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
}

func TestCheckout_SubmitDetails_UnknownLocation(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "s1", 1)

	req := sampleDetails()
	req.ShippingLocation = "MARS"
	_, svcErr := f.svc.SubmitDetails(context.Background(), "s1", req)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestCheckout_SubmitDetails_AdvancesToPayment(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "s1", 2)

	session, svcErr := f.svc.SubmitDetails(context.Background(), "s1", sampleDetails())

	assert.Nil(t, svcErr)
	assert.Equal(t, models.CheckoutStepPayment, session.Step)
	assert.Equal(t, "Juan Dela Cruz", session.Details.FullName)
}

func TestCheckout_ApplyVoucher_ComputesTotals(t *testing.T) {
	f := newCheckoutFixture(t)
	f.toPayment(t, "s1")

	result, totals, svcErr := f.svc.ApplyVoucher(context.Background(), "s1", "PEPPY20")

	assert.Nil(t, svcErr)
	assert.True(t, result.Valid)
	assert.Equal(t, 5000.0, totals.Subtotal)
	assert.Equal(t, 1000.0, totals.DiscountAmount)
	assert.Equal(t, 150.0, totals.ShippingFee)
	assert.Equal(t, 4150.0, totals.GrandTotal)
}

func TestCheckout_ApplyVoucher_InvalidCodeIsNotAnError(t *testing.T) {
	f := newCheckoutFixture(t)
	f.toPayment(t, "s1")

	result, totals, svcErr := f.svc.ApplyVoucher(context.Background(), "s1", "GHOST")

	assert.Nil(t, svcErr)
	assert.False(t, result.Valid)
	assert.Equal(t, 0.0, totals.DiscountAmount)
}

func TestCheckout_ApplyVoucher_RequiresPaymentStep(t *testing.T) {
	f := newCheckoutFixture(t)

	_, _, svcErr := f.svc.ApplyVoucher(context.Background(), "s1", "PEPPY20")

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestCheckout_RemoveVoucher(t *testing.T) {
	f := newCheckoutFixture(t)
	f.toPayment(t, "s1")
	_, _, _ = f.svc.ApplyVoucher(context.Background(), "s1", "PEPPY20")

	totals, svcErr := f.svc.RemoveVoucher(context.Background(), "s1")

	assert.Nil(t, svcErr)
	assert.Equal(t, 0.0, totals.DiscountAmount)
	assert.Equal(t, 5150.0, totals.GrandTotal)
}

func TestCheckout_BackToDetails_KeepsState(t *testing.T) {
	f := newCheckoutFixture(t)
	f.toPayment(t, "s1")
	_, _, _ = f.svc.ApplyVoucher(context.Background(), "s1", "PEPPY20")

	session, svcErr := f.svc.BackToDetails(context.Background(), "s1")

	assert.Nil(t, svcErr)
	assert.Equal(t, models.CheckoutStepDetails, session.Step)
	assert.Equal(t, "Juan Dela Cruz", session.Details.FullName)
	assert.NotNil(t, session.Voucher)
}

func TestCheckout_PlaceOrder_HappyPath(t *testing.T) {
	f := newCheckoutFixture(t)
	f.toPayment(t, "s1")
	_, _, _ = f.svc.ApplyVoucher(context.Background(), "s1", "PEPPY20")

	resp, svcErr := f.svc.PlaceOrder(context.Background(), "s1", &models.PlaceOrderRequest{
		PaymentMethodID: f.method.ID.String(),
		ContactMethod:   "telegram",
	}, sampleProof())

	assert.Nil(t, svcErr)
	assert.Equal(t, "TPL#001", resp.OrderNumber)
	assert.Equal(t, 5000.0, resp.Totals.Subtotal)
	assert.Equal(t, 1000.0, resp.Totals.DiscountAmount)
	assert.Equal(t, 150.0, resp.Totals.ShippingFee)
	assert.Equal(t, 4150.0, resp.Totals.GrandTotal)
	assert.NotNil(t, resp.ProofURL)
	assert.Contains(t, resp.OrderMessage, "Grand Total: ₱4,150")
	assert.Equal(t, "https://t.me/anntpl", resp.ContactURL)

	// Order snapshot persisted with line items.
	assert.Len(t, f.orderRepo.orders, 1)
	order := f.orderRepo.orders[0]
	assert.Equal(t, 5000.0, order.TotalPrice)
	assert.Len(t, order.OrderItems, 1)
	assert.Equal(t, "BPC-157", order.OrderItems[0].ProductName)
	assert.Equal(t, 2, order.OrderItems[0].Quantity)
	assert.Equal(t, models.OrderStatusNew, order.OrderStatus)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)

	// Voucher counter, cart, session, events.
	assert.Equal(t, 1, f.voucherRepo.vouchers["PEPPY20"].TimesUsed)
	cart, _ := f.carts.GetCart(context.Background(), "s1")
	assert.Empty(t, cart.Lines)
	assert.Equal(t, models.CheckoutStepConfirmation, f.checkoutRepo.sessions["s1"].Step)
	assert.Equal(t, []string{"TPL#001"}, f.events.keys)
	assert.Len(t, f.sns.published, 1)
	assert.Len(t, f.uploader.keys, 1)
}

func TestCheckout_PlaceOrder_RequiresPaymentStep(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "s1", 1)

	_, svcErr := f.svc.PlaceOrder(context.Background(), "s1", &models.PlaceOrderRequest{
		PaymentMethodID: f.method.ID.String(),
		ContactMethod:   "telegram",
	}, nil)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestCheckout_PlaceOrder_UnknownPaymentMethod(t *testing.T) {
	f := newCheckoutFixture(t)
	f.toPayment(t, "s1")

	_, svcErr := f.svc.PlaceOrder(context.Background(), "s1", &models.PlaceOrderRequest{
		PaymentMethodID: uuid.New().String(),
		ContactMethod:   "telegram",
	}, nil)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestCheckout_PlaceOrder_OversizedProof(t *testing.T) {
	f := newCheckoutFixture(t)
	f.toPayment(t, "s1")

	proof := &models.PaymentProof{
		FileName:    "huge.png",
		ContentType: "image/png",
		Size:        6 * 1024 * 1024,
	}
	_, svcErr := f.svc.PlaceOrder(context.Background(), "s1", &models.PlaceOrderRequest{
		PaymentMethodID: f.method.ID.String(),
		ContactMethod:   "telegram",
	}, proof)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Empty(t, f.orderRepo.orders)
}

func TestCheckout_PlaceOrder_VoucherWentInvalid(t *testing.T) {
	f := newCheckoutFixture(t)
	f.toPayment(t, "s1")
	_, _, _ = f.svc.ApplyVoucher(context.Background(), "s1", "PEPPY20")
	_ = f.voucherRepo.Deactivate(context.Background(), "PEPPY20")

	_, svcErr := f.svc.PlaceOrder(context.Background(), "s1", &models.PlaceOrderRequest{
		PaymentMethodID: f.method.ID.String(),
		ContactMethod:   "telegram",
	}, sampleProof())

	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Nil(t, f.checkoutRepo.sessions["s1"].Voucher, "Stale voucher is dropped from the session")
	assert.Empty(t, f.orderRepo.orders)
}

func TestCheckout_PlaceOrder_MissingProof(t *testing.T) {
	f := newCheckoutFixture(t)
	f.toPayment(t, "s1")

	_, svcErr := f.svc.PlaceOrder(context.Background(), "s1", &models.PlaceOrderRequest{
		PaymentMethodID: f.method.ID.String(),
		ContactMethod:   "telegram",
	}, nil)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Empty(t, f.orderRepo.orders, "No order may exist without a payment proof")
	assert.Equal(t, models.CheckoutStepPayment, f.checkoutRepo.sessions["s1"].Step)
}

func TestCheckout_PlaceOrder_RetriesOnDuplicateNumber(t *testing.T) {
	f := newCheckoutFixture(t)
	f.toPayment(t, "s1")
	f.orderRepo.failDuplicates = 1

	resp, svcErr := f.svc.PlaceOrder(context.Background(), "s1", &models.PlaceOrderRequest{
		PaymentMethodID: f.method.ID.String(),
		ContactMethod:   "telegram",
	}, sampleProof())

	assert.Nil(t, svcErr)
	assert.Len(t, f.orderRepo.orders, 1)
	assert.NotEmpty(t, resp.OrderNumber)
}

func TestCheckout_PlaceOrder_Idempotent(t *testing.T) {
	f := newCheckoutFixture(t)
	f.toPayment(t, "s1")

	req := &models.PlaceOrderRequest{PaymentMethodID: f.method.ID.String(), ContactMethod: "telegram"}
	first, svcErr := f.svc.PlaceOrder(context.Background(), "s1", req, sampleProof())
	assert.Nil(t, svcErr)

	second, svcErr := f.svc.PlaceOrder(context.Background(), "s1", req, sampleProof())
	assert.Nil(t, svcErr)
	assert.Equal(t, first.OrderNumber, second.OrderNumber)
	assert.Equal(t, first.OrderMessage, second.OrderMessage)
	assert.Equal(t, first.Totals, second.Totals)
	assert.Len(t, f.orderRepo.orders, 1, "Replay must not create a second order")
}

func TestCheckout_PlaceOrder_UploadFailureDoesNotFailOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	f.toPayment(t, "s1")
	f.uploader.fail = true

	resp, svcErr := f.svc.PlaceOrder(context.Background(), "s1", &models.PlaceOrderRequest{
		PaymentMethodID: f.method.ID.String(),
		ContactMethod:   "telegram",
	}, sampleProof())

	assert.Nil(t, svcErr)
	assert.Nil(t, resp.ProofURL)
	assert.Len(t, f.orderRepo.orders, 1)
}
