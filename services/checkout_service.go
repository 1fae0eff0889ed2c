package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"storefront-service/models"
	"storefront-service/pkg/aws"
	"storefront-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventPublisher publishes order lifecycle events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// CheckoutService drives the checkout wizard: details -> payment ->
// confirmation. All pricing is computed server-side from the cart snapshot,
// the voucher table and the shipping fee table at the moment of submission.
type CheckoutService interface {
	GetSession(ctx context.Context, sessionID string) (*models.CheckoutSession, *models.CheckoutTotals, *ServiceError)
	SubmitDetails(ctx context.Context, sessionID string, req *models.SubmitDetailsRequest) (*models.CheckoutSession, *ServiceError)
	ApplyVoucher(ctx context.Context, sessionID, code string) (*models.ValidateVoucherResponse, *models.CheckoutTotals, *ServiceError)
	RemoveVoucher(ctx context.Context, sessionID string) (*models.CheckoutTotals, *ServiceError)
	BackToDetails(ctx context.Context, sessionID string) (*models.CheckoutSession, *ServiceError)
	PlaceOrder(ctx context.Context, sessionID string, req *models.PlaceOrderRequest, proof *models.PaymentProof) (*models.PlaceOrderResponse, *ServiceError)
}

// CheckoutDeps bundles the collaborators the orchestrator needs. Uploader,
// Events, SNS and Metrics may be nil; the matching side effects are skipped.
type CheckoutDeps struct {
	Store        repository.CheckoutStore
	Carts        CartService
	Products     repository.ProductRepository
	Vouchers     VoucherService
	Shipping     ShippingService
	Orders       repository.OrderRepository
	OrderNumbers *OrderNumberGenerator
	Message      *OrderMessageBuilder
	Uploader     aws.Uploader
	Events       EventPublisher
	SNS          aws.SNSPublisher
	SNSTopicARN  string
	Metrics      *aws.MetricsClient
	MaxProofSize int64
	Logger       *zap.Logger
}

type checkoutServiceImpl struct {
	CheckoutDeps
}

const orderNumberAttempts = 3

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(deps CheckoutDeps) CheckoutService {
	return &checkoutServiceImpl{CheckoutDeps: deps}
}

// GetSession returns the wizard state plus the current pricing breakdown. A
// session that was never started begins at the details step.
func (s *checkoutServiceImpl) GetSession(ctx context.Context, sessionID string) (*models.CheckoutSession, *models.CheckoutTotals, *ServiceError) {
	session, svcErr := s.loadSession(ctx, sessionID)
	if svcErr != nil {
		return nil, nil, svcErr
	}
	if session == nil {
		session = &models.CheckoutSession{SessionID: sessionID, Step: models.CheckoutStepDetails}
	}

	totals, svcErr := s.totalsFor(ctx, session)
	if svcErr != nil {
		return nil, nil, svcErr
	}
	return session, totals, nil
}

// SubmitDetails validates the customer details step and advances the wizard
// to payment. Submitting again overwrites the previous details. A session
// already on the confirmation step is restarted from scratch.
func (s *checkoutServiceImpl) SubmitDetails(ctx context.Context, sessionID string, req *models.SubmitDetailsRequest) (*models.CheckoutSession, *ServiceError) {
	if !s.Shipping.IsValidLocation(req.ShippingLocation) {
		return nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Unknown shipping location %q", req.ShippingLocation)}
	}

	cart, svcErr := s.Carts.GetCart(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	if len(cart.Lines) == 0 {
		return nil, &ServiceError{StatusCode: 409, Message: "Cart is empty"}
	}

	session, svcErr := s.loadSession(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	if session == nil || session.Step == models.CheckoutStepConfirmation {
		session = &models.CheckoutSession{SessionID: sessionID}
	}

	session.Step = models.CheckoutStepPayment
	session.Details = req.CustomerDetails
	session.ShippingLocation = req.ShippingLocation

	if err := s.Store.SaveSession(ctx, session); err != nil {
		s.Logger.Error("Failed to save checkout session", zap.String("session_id", sessionID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save checkout session"}
	}
	return session, nil
}

// ApplyVoucher validates a code against the current cart subtotal and, when
// valid, pins it to the session. An invalid code is not an error; the
// response carries the reason.
func (s *checkoutServiceImpl) ApplyVoucher(ctx context.Context, sessionID, code string) (*models.ValidateVoucherResponse, *models.CheckoutTotals, *ServiceError) {
	session, svcErr := s.requireStep(ctx, sessionID, models.CheckoutStepPayment)
	if svcErr != nil {
		return nil, nil, svcErr
	}

	cart, svcErr := s.Carts.GetCart(ctx, sessionID)
	if svcErr != nil {
		return nil, nil, svcErr
	}

	result, svcErr := s.Vouchers.Validate(ctx, code, cart.TotalPrice())
	if svcErr != nil {
		return nil, nil, svcErr
	}

	if result.Valid {
		session.Voucher = &models.AppliedVoucher{
			Code:           result.Code,
			DiscountAmount: result.DiscountAmount,
		}
		if err := s.Store.SaveSession(ctx, session); err != nil {
			s.Logger.Error("Failed to save checkout session", zap.String("session_id", sessionID), zap.Error(err))
			return nil, nil, &ServiceError{StatusCode: 500, Message: "Failed to save checkout session"}
		}
		if s.Metrics != nil {
			_ = s.Metrics.RecordCount(ctx, aws.MetricVouchersApplied, map[string]string{"code": result.Code})
		}
	}

	totals, svcErr := s.totalsFor(ctx, session)
	if svcErr != nil {
		return nil, nil, svcErr
	}
	return result, totals, nil
}

// RemoveVoucher detaches any applied voucher from the session.
func (s *checkoutServiceImpl) RemoveVoucher(ctx context.Context, sessionID string) (*models.CheckoutTotals, *ServiceError) {
	session, svcErr := s.requireStep(ctx, sessionID, models.CheckoutStepPayment)
	if svcErr != nil {
		return nil, svcErr
	}

	session.Voucher = nil
	if err := s.Store.SaveSession(ctx, session); err != nil {
		s.Logger.Error("Failed to save checkout session", zap.String("session_id", sessionID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save checkout session"}
	}

	return s.totalsFor(ctx, session)
}

// BackToDetails moves the wizard from payment back to details. Previously
// entered details and any applied voucher are kept.
func (s *checkoutServiceImpl) BackToDetails(ctx context.Context, sessionID string) (*models.CheckoutSession, *ServiceError) {
	session, svcErr := s.requireStep(ctx, sessionID, models.CheckoutStepPayment)
	if svcErr != nil {
		return nil, svcErr
	}

	session.Step = models.CheckoutStepDetails
	if err := s.Store.SaveSession(ctx, session); err != nil {
		s.Logger.Error("Failed to save checkout session", zap.String("session_id", sessionID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save checkout session"}
	}
	return session, nil
}

// PlaceOrder writes the order snapshot and advances the session to the
// confirmation step. A payment-proof image is mandatory; the upload itself
// stays best-effort once the order is persisted. Calling PlaceOrder again on
// a confirmed session replays the stored confirmation instead of creating a
// second order.
func (s *checkoutServiceImpl) PlaceOrder(ctx context.Context, sessionID string, req *models.PlaceOrderRequest, proof *models.PaymentProof) (*models.PlaceOrderResponse, *ServiceError) {
	session, svcErr := s.loadSession(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	if session == nil {
		return nil, &ServiceError{StatusCode: 404, Message: "No checkout in progress"}
	}
	if session.Step == models.CheckoutStepConfirmation {
		return s.replayConfirmation(ctx, session)
	}
	if session.Step != models.CheckoutStepPayment {
		return nil, &ServiceError{StatusCode: 409, Message: "Customer details must be submitted first"}
	}

	cart, svcErr := s.Carts.GetCart(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	if len(cart.Lines) == 0 {
		return nil, &ServiceError{StatusCode: 409, Message: "Cart is empty"}
	}

	methodID, err := uuid.Parse(req.PaymentMethodID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid payment method ID"}
	}
	method, err := s.Products.FindPaymentMethodByID(ctx, methodID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Payment method not found"}
		}
		s.Logger.Error("Failed to load payment method", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load payment method"}
	}

	if proof == nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Payment proof is required"}
	}
	if svcErr := s.validateProof(proof); svcErr != nil {
		return nil, svcErr
	}

	subtotal := cart.TotalPrice()
	discount, voucherCode, svcErr := s.settleVoucher(ctx, session, subtotal)
	if svcErr != nil {
		return nil, svcErr
	}

	fee, svcErr := s.Shipping.FeeFor(session.ShippingLocation)
	if svcErr != nil {
		return nil, svcErr
	}

	grandTotal := subtotal - discount
	if grandTotal < 0 {
		grandTotal = 0
	}
	grandTotal += fee

	order := s.buildOrder(session, cart, method, req, subtotal, discount, fee, voucherCode)

	if svcErr := s.persistWithFreshNumber(ctx, order); svcErr != nil {
		if s.Metrics != nil {
			_ = s.Metrics.RecordCount(ctx, aws.MetricOrdersFailed, nil)
		}
		return nil, svcErr
	}

	s.Logger.Info("Order placed",
		zap.String("order_number", order.OrderNumber),
		zap.String("session_id", sessionID),
		zap.Float64("grand_total", grandTotal),
	)
	if s.Metrics != nil {
		_ = s.Metrics.RecordCount(ctx, aws.MetricOrdersPlaced, nil)
	}

	// Everything below is best-effort. The order stands even if the proof
	// upload, the voucher counter or the event publish fails.
	proofURL := s.uploadProof(ctx, order, proof)
	if voucherCode != nil {
		if err := s.Vouchers.Redeem(ctx, *voucherCode); err != nil {
			s.Logger.Warn("Failed to increment voucher usage",
				zap.String("code", *voucherCode),
				zap.Error(err),
			)
		}
	}
	s.publishOrderPlaced(ctx, order, sessionID, grandTotal)

	message := s.Message.Build(order, method)

	session.Step = models.CheckoutStepConfirmation
	session.Voucher = nil
	session.OrderNumber = order.OrderNumber
	session.OrderMessage = message
	session.ContactURL = s.Message.ContactURL()
	if err := s.Store.SaveSession(ctx, session); err != nil {
		s.Logger.Warn("Failed to save confirmed checkout session", zap.String("session_id", sessionID), zap.Error(err))
	}
	if svcErr := s.Carts.Clear(ctx, sessionID); svcErr != nil {
		s.Logger.Warn("Failed to clear cart after checkout", zap.String("session_id", sessionID))
	}

	return &models.PlaceOrderResponse{
		OrderNumber:  order.OrderNumber,
		OrderMessage: message,
		ContactURL:   s.Message.ContactURL(),
		Totals: models.CheckoutTotals{
			Subtotal:       subtotal,
			DiscountAmount: discount,
			ShippingFee:    fee,
			GrandTotal:     grandTotal,
		},
		ProofURL: proofURL,
	}, nil
}

func (s *checkoutServiceImpl) loadSession(ctx context.Context, sessionID string) (*models.CheckoutSession, *ServiceError) {
	session, err := s.Store.GetSession(ctx, sessionID)
	if err != nil {
		s.Logger.Error("Failed to load checkout session", zap.String("session_id", sessionID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load checkout session"}
	}
	return session, nil
}

func (s *checkoutServiceImpl) requireStep(ctx context.Context, sessionID, step string) (*models.CheckoutSession, *ServiceError) {
	session, svcErr := s.loadSession(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	if session == nil {
		return nil, &ServiceError{StatusCode: 404, Message: "No checkout in progress"}
	}
	if session.Step != step {
		return nil, &ServiceError{StatusCode: 409, Message: "Customer details must be submitted first"}
	}
	return session, nil
}

// totalsFor recomputes the pricing breakdown from the live cart. The shipping
// fee only appears once a location has been chosen.
func (s *checkoutServiceImpl) totalsFor(ctx context.Context, session *models.CheckoutSession) (*models.CheckoutTotals, *ServiceError) {
	cart, svcErr := s.Carts.GetCart(ctx, session.SessionID)
	if svcErr != nil {
		return nil, svcErr
	}

	totals := &models.CheckoutTotals{Subtotal: cart.TotalPrice()}
	if session.Voucher != nil {
		totals.DiscountAmount = session.Voucher.DiscountAmount
	}
	if session.ShippingLocation != "" {
		if fee, err := s.Shipping.FeeFor(session.ShippingLocation); err == nil {
			totals.ShippingFee = fee
		}
	}

	grand := totals.Subtotal - totals.DiscountAmount
	if grand < 0 {
		grand = 0
	}
	totals.GrandTotal = grand + totals.ShippingFee
	return totals, nil
}

// settleVoucher re-validates the pinned voucher at submission time. A voucher
// that went invalid between apply and submit aborts the order so the customer
// is not silently charged more than the screen showed.
func (s *checkoutServiceImpl) settleVoucher(ctx context.Context, session *models.CheckoutSession, subtotal float64) (float64, *string, *ServiceError) {
	if session.Voucher == nil {
		return 0, nil, nil
	}

	result, svcErr := s.Vouchers.Validate(ctx, session.Voucher.Code, subtotal)
	if svcErr != nil {
		return 0, nil, svcErr
	}
	if !result.Valid {
		session.Voucher = nil
		if err := s.Store.SaveSession(ctx, session); err != nil {
			s.Logger.Warn("Failed to save checkout session", zap.String("session_id", session.SessionID), zap.Error(err))
		}
		return 0, nil, &ServiceError{
			StatusCode: 409,
			Message:    fmt.Sprintf("Voucher %s is no longer valid: %s", result.Code, result.Message),
		}
	}

	code := result.Code
	return result.DiscountAmount, &code, nil
}

func (s *checkoutServiceImpl) validateProof(proof *models.PaymentProof) *ServiceError {
	if s.MaxProofSize > 0 && proof.Size > s.MaxProofSize {
		return &ServiceError{
			StatusCode: 400,
			Message:    fmt.Sprintf("Payment proof exceeds the %dMB limit", s.MaxProofSize/(1024*1024)),
		}
	}
	if !strings.HasPrefix(proof.ContentType, "image/") {
		return &ServiceError{StatusCode: 400, Message: "Payment proof must be an image"}
	}
	return nil
}

func (s *checkoutServiceImpl) buildOrder(
	session *models.CheckoutSession,
	cart *models.Cart,
	method *models.PaymentMethod,
	req *models.PlaceOrderRequest,
	subtotal, discount, fee float64,
	voucherCode *string,
) *models.Order {
	order := &models.Order{
		CustomerName:  session.Details.FullName,
		CustomerEmail: session.Details.Email,
		CustomerPhone: session.Details.Phone,

		ShippingAddress:  session.Details.Address,
		ShippingBarangay: session.Details.Barangay,
		ShippingCity:     session.Details.City,
		ShippingState:    session.Details.State,
		ShippingZipCode:  session.Details.ZipCode,
		ShippingLocation: session.ShippingLocation,

		TotalPrice:     subtotal,
		ShippingFee:    fee,
		DiscountAmount: discount,
		VoucherCode:    voucherCode,

		PaymentMethodID:   &method.ID,
		PaymentMethodName: &method.Name,
		ContactMethod:     &req.ContactMethod,

		OrderStatus:   models.OrderStatusNew,
		PaymentStatus: models.PaymentStatusPending,
	}
	if req.Notes != "" {
		order.Notes = &req.Notes
	}

	for _, line := range cart.Lines {
		item := models.OrderItem{
			ProductID:     line.Product.ID,
			ProductName:   line.Product.Name,
			Quantity:      line.Quantity,
			Price:         line.UnitPrice,
			Total:         line.Total(),
			IsCompleteSet: line.IsCompleteSet,
		}
		if line.Product.PurityPercentage > 0 {
			purity := line.Product.PurityPercentage
			item.PurityPercentage = &purity
		}
		if line.Variation != nil {
			variationID := line.Variation.ID
			variationName := line.Variation.Name
			item.VariationID = &variationID
			item.VariationName = &variationName
		}
		order.OrderItems = append(order.OrderItems, item)
	}
	return order
}

// persistWithFreshNumber inserts the order, regenerating the number when a
// concurrent checkout took the same one. The unique index on order_number is
// the arbiter.
func (s *checkoutServiceImpl) persistWithFreshNumber(ctx context.Context, order *models.Order) *ServiceError {
	var lastErr error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = s.OrderNumbers.Next(ctx)
		lastErr = s.Orders.Create(ctx, order)
		if lastErr == nil {
			return nil
		}
		if !repository.IsDuplicateOrderNumber(lastErr) {
			break
		}
		s.Logger.Warn("Order number collision, retrying",
			zap.String("order_number", order.OrderNumber),
			zap.Int("attempt", attempt+1),
		)
	}

	s.Logger.Error("Failed to create order", zap.Error(lastErr))
	return &ServiceError{StatusCode: 500, Message: "Failed to place order"}
}

// uploadProof stores the proof image and patches its URL onto the order.
// Returns nil when there is no proof, no uploader, or the upload failed.
func (s *checkoutServiceImpl) uploadProof(ctx context.Context, order *models.Order, proof *models.PaymentProof) *string {
	if proof == nil || s.Uploader == nil {
		return nil
	}

	ext := filepath.Ext(proof.FileName)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("payment-proofs/%s-%s%s",
		strings.ReplaceAll(order.OrderNumber, "#", "-"),
		uuid.New().String(),
		ext,
	)

	url, err := s.Uploader.Upload(ctx, key, proof.ContentType, proof.Data)
	if err != nil {
		s.Logger.Warn("Failed to upload payment proof",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
		if s.Metrics != nil {
			_ = s.Metrics.RecordCount(ctx, aws.MetricProofUploadFails, nil)
		}
		return nil
	}

	if err := s.Orders.UpdatePaymentProofURL(ctx, order.ID, url); err != nil {
		s.Logger.Warn("Failed to save payment proof URL",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
		return nil
	}
	order.PaymentProofURL = &url
	return &url
}

func (s *checkoutServiceImpl) publishOrderPlaced(ctx context.Context, order *models.Order, sessionID string, grandTotal float64) {
	event := models.OrderPlacedEvent{
		Event:       "order.placed",
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		SessionID:   sessionID,
		GrandTotal:  grandTotal,
		Timestamp:   time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.Logger.Warn("Failed to marshal order event", zap.Error(err))
		return
	}

	if s.Events != nil {
		if err := s.Events.Publish(ctx, order.OrderNumber, payload); err != nil {
			s.Logger.Warn("Failed to publish order event to broker", zap.Error(err))
		}
	}
	if s.SNS != nil && s.SNSTopicARN != "" {
		if err := s.SNS.Publish(ctx, s.SNSTopicARN, payload); err != nil {
			s.Logger.Warn("Failed to publish order event to SNS", zap.Error(err))
		}
	}
}

// replayConfirmation rebuilds the PlaceOrder response for a session that has
// already been submitted, so a double-click cannot create two orders.
func (s *checkoutServiceImpl) replayConfirmation(ctx context.Context, session *models.CheckoutSession) (*models.PlaceOrderResponse, *ServiceError) {
	resp := &models.PlaceOrderResponse{
		OrderNumber:  session.OrderNumber,
		OrderMessage: session.OrderMessage,
		ContactURL:   session.ContactURL,
	}

	order, err := s.Orders.FindByOrderNumber(ctx, session.OrderNumber)
	if err != nil {
		s.Logger.Warn("Failed to reload confirmed order",
			zap.String("order_number", session.OrderNumber),
			zap.Error(err),
		)
		return resp, nil
	}

	grand := order.TotalPrice - order.DiscountAmount
	if grand < 0 {
		grand = 0
	}
	resp.Totals = models.CheckoutTotals{
		Subtotal:       order.TotalPrice,
		DiscountAmount: order.DiscountAmount,
		ShippingFee:    order.ShippingFee,
		GrandTotal:     grand + order.ShippingFee,
	}
	resp.ProofURL = order.PaymentProofURL
	return resp, nil
}
