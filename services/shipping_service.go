package services

import (
	"fmt"
	"strings"

	"storefront-service/models"
)

// Shipping location identifiers. Each maps to a flat fee loaded from
// configuration.
const (
	ShippingLocationNCR             = "NCR"
	ShippingLocationLuzon           = "LUZON"
	ShippingLocationVisayasMindanao = "VISAYAS_MINDANAO"
)

// ShippingService resolves flat shipping fees per coarse geographic bucket.
type ShippingService interface {
	FeeFor(location string) (float64, *ServiceError)
	Locations() []models.ShippingLocationInfo
	IsValidLocation(location string) bool
}

type shippingServiceImpl struct {
	fees  map[string]float64
	order []string
}

// NewShippingService creates a ShippingService from the configured fee table.
func NewShippingService(fees map[string]float64) ShippingService {
	return &shippingServiceImpl{
		fees:  fees,
		order: []string{ShippingLocationNCR, ShippingLocationLuzon, ShippingLocationVisayasMindanao},
	}
}

// FeeFor returns the flat fee for a shipping location.
func (s *shippingServiceImpl) FeeFor(location string) (float64, *ServiceError) {
	fee, ok := s.fees[location]
	if !ok {
		return 0, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Unknown shipping location %q", location)}
	}
	return fee, nil
}

// Locations lists the configured locations in display order.
func (s *shippingServiceImpl) Locations() []models.ShippingLocationInfo {
	infos := make([]models.ShippingLocationInfo, 0, len(s.order))
	for _, id := range s.order {
		if fee, ok := s.fees[id]; ok {
			infos = append(infos, models.ShippingLocationInfo{
				ID:    id,
				Label: LocationLabel(id),
				Fee:   fee,
			})
		}
	}
	return infos
}

// IsValidLocation reports whether the location exists in the fee table.
func (s *shippingServiceImpl) IsValidLocation(location string) bool {
	_, ok := s.fees[location]
	return ok
}

// LocationLabel renders a location ID for humans ("VISAYAS_MINDANAO" becomes
// "VISAYAS & MINDANAO", matching the order message format).
func LocationLabel(location string) string {
	return strings.ReplaceAll(location, "_", " & ")
}
