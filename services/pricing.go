package services

import "storefront-service/models"

// Price and stock resolution for a product selection. Everything that quotes
// a price or checks stock goes through these functions.

// ResolvePrice returns the unit price to charge for a selection. Priority:
// complete-set price, then variation price, then active discount, then base
// price. Variation prices are absolute; the base discount never applies to a
// variation. There is no error path.
func ResolvePrice(product *models.Product, variation *models.ProductVariation, isCompleteSet bool) float64 {
	if isCompleteSet && product.IsCompleteSet && product.CompleteSetPrice != nil {
		return *product.CompleteSetPrice
	}
	if variation != nil {
		return variation.Price
	}
	if product.DiscountActive && product.DiscountPrice != nil {
		return *product.DiscountPrice
	}
	return product.BasePrice
}

// AvailableStock returns the maximum quantity currently purchasable. A
// complete-set selection has no stock counter of its own; it consumes the same
// counter as the underlying variation or product.
func AvailableStock(product *models.Product, variation *models.ProductVariation) int {
	if variation != nil {
		return variation.StockQuantity
	}
	return product.StockQuantity
}

// HasAnyStock reports whether the product can be purchased in any form: its
// own stock when it has no variations, otherwise any variation with stock.
func HasAnyStock(product *models.Product) bool {
	if len(product.Variations) == 0 {
		return product.StockQuantity > 0
	}
	for _, v := range product.Variations {
		if v.StockQuantity > 0 {
			return true
		}
	}
	return false
}
