package services

import (
	"context"
	"fmt"

	"storefront-service/models"
	"storefront-service/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CartUpdate is the result of a cart mutation. Clamped is set when the
// requested quantity was reduced to the available stock.
type CartUpdate struct {
	Cart    *models.Cart `json:"cart"`
	Clamped bool         `json:"clamped"`
}

// CartService owns the session cart ledger: add/update/remove/clear with the
// stock gate enforced on every mutation.
type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*models.Cart, *ServiceError)
	AddItem(ctx context.Context, sessionID string, req *models.AddItemRequest) (*CartUpdate, *ServiceError)
	UpdateQuantity(ctx context.Context, sessionID string, lineIndex, quantity int) (*CartUpdate, *ServiceError)
	RemoveItem(ctx context.Context, sessionID string, lineIndex int) (*models.Cart, *ServiceError)
	Clear(ctx context.Context, sessionID string) *ServiceError
}

type cartServiceImpl struct {
	store       repository.CartStore
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(store repository.CartStore, productRepo repository.ProductRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{
		store:       store,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetCart returns the session's cart, or an empty one if none exists.
func (s *cartServiceImpl) GetCart(ctx context.Context, sessionID string) (*models.Cart, *ServiceError) {
	cart, err := s.store.GetCart(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("session_id", sessionID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}
	if cart == nil {
		cart = &models.Cart{SessionID: sessionID, Lines: []models.CartLine{}}
	}
	return cart, nil
}

// AddItem resolves the unit price and available stock for the selection,
// merges into an existing line with the same identity key or appends a new
// one, and clamps the resulting quantity to the available stock.
func (s *cartServiceImpl) AddItem(ctx context.Context, sessionID string, req *models.AddItemRequest) (*CartUpdate, *ServiceError) {
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to load product", zap.String("product_id", req.ProductID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load product"}
	}

	var variation *models.ProductVariation
	if req.VariationID != nil {
		for i := range product.Variations {
			if product.Variations[i].ID == *req.VariationID {
				variation = &product.Variations[i]
				break
			}
		}
		if variation == nil {
			return nil, &ServiceError{StatusCode: 404, Message: "Product variation not found"}
		}
	}

	available := AvailableStock(product, variation)
	if available == 0 {
		name := product.Name
		if variation != nil {
			name = fmt.Sprintf("%s %s", product.Name, variation.Name)
		}
		return nil, &ServiceError{StatusCode: 409, Message: fmt.Sprintf("%s is out of stock", name)}
	}

	unitPrice := ResolvePrice(product, variation, req.IsCompleteSet)

	cart, svcErr := s.GetCart(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}

	clamped := false
	existing := -1
	for i := range cart.Lines {
		if cart.Lines[i].Matches(product.ID, req.VariationID, req.IsCompleteSet) {
			existing = i
			break
		}
	}

	if existing > -1 {
		// Clamp the new total, not just the increment.
		current := cart.Lines[existing].Quantity
		if current+quantity > available {
			quantity = available - current
			clamped = true
		}
		if quantity <= 0 {
			// Line already holds the maximum available quantity.
			return &CartUpdate{Cart: cart, Clamped: true}, nil
		}
		cart.Lines[existing].Quantity += quantity
	} else {
		if quantity > available {
			quantity = available
			clamped = true
		}
		cart.Lines = append(cart.Lines, models.CartLine{
			Product:       *product,
			Variation:     variation,
			Quantity:      quantity,
			UnitPrice:     unitPrice,
			IsCompleteSet: req.IsCompleteSet,
		})
	}

	if err := s.store.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("session_id", sessionID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
	}

	return &CartUpdate{Cart: cart, Clamped: clamped}, nil
}

// UpdateQuantity sets a line's quantity, clamped to its available stock. A
// quantity of zero or below removes the line.
func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, sessionID string, lineIndex, quantity int) (*CartUpdate, *ServiceError) {
	if quantity <= 0 {
		cart, svcErr := s.RemoveItem(ctx, sessionID, lineIndex)
		if svcErr != nil {
			return nil, svcErr
		}
		return &CartUpdate{Cart: cart}, nil
	}

	cart, svcErr := s.GetCart(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	if lineIndex < 0 || lineIndex >= len(cart.Lines) {
		return nil, &ServiceError{StatusCode: 404, Message: "Cart line not found"}
	}

	// Stock is checked against the line snapshot: the catalog is not
	// re-fetched, matching how prices are frozen at add time.
	line := &cart.Lines[lineIndex]
	available := AvailableStock(&line.Product, line.Variation)

	clamped := false
	if quantity > available {
		quantity = available
		clamped = true
	}
	line.Quantity = quantity

	if err := s.store.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("session_id", sessionID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
	}

	return &CartUpdate{Cart: cart, Clamped: clamped}, nil
}

// RemoveItem deletes exactly the given line; remaining lines keep their order.
func (s *cartServiceImpl) RemoveItem(ctx context.Context, sessionID string, lineIndex int) (*models.Cart, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	if lineIndex < 0 || lineIndex >= len(cart.Lines) {
		return nil, &ServiceError{StatusCode: 404, Message: "Cart line not found"}
	}

	cart.Lines = append(cart.Lines[:lineIndex], cart.Lines[lineIndex+1:]...)

	if err := s.store.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("session_id", sessionID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
	}
	return cart, nil
}

// Clear empties the session's cart.
func (s *cartServiceImpl) Clear(ctx context.Context, sessionID string) *ServiceError {
	if err := s.store.DeleteCart(ctx, sessionID); err != nil {
		s.logger.Error("Failed to clear cart", zap.String("session_id", sessionID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to clear cart"}
	}
	return nil
}
