package services_test

import (
	"testing"

	"storefront-service/services"

	"github.com/stretchr/testify/assert"
)

func newTestShippingService() services.ShippingService {
	return services.NewShippingService(map[string]float64{
		services.ShippingLocationNCR:             150,
		services.ShippingLocationLuzon:           200,
		services.ShippingLocationVisayasMindanao: 250,
	})
}

func TestShipping_FeeFor(t *testing.T) {
	svc := newTestShippingService()

	fee, svcErr := svc.FeeFor(services.ShippingLocationNCR)
	assert.Nil(t, svcErr)
	assert.Equal(t, 150.0, fee)

	fee, svcErr = svc.FeeFor(services.ShippingLocationVisayasMindanao)
	assert.Nil(t, svcErr)
	assert.Equal(t, 250.0, fee)
}

func TestShipping_FeeFor_Unknown(t *testing.T) {
	svc := newTestShippingService()

	_, svcErr := svc.FeeFor("MARS")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestShipping_Locations_DisplayOrderAndLabels(t *testing.T) {
	svc := newTestShippingService()

	locations := svc.Locations()
	assert.Len(t, locations, 3)
	assert.Equal(t, services.ShippingLocationNCR, locations[0].ID)
	assert.Equal(t, "VISAYAS & MINDANAO", locations[2].Label)
	assert.Equal(t, 200.0, locations[1].Fee)
}

func TestShipping_IsValidLocation(t *testing.T) {
	svc := newTestShippingService()

	assert.True(t, svc.IsValidLocation(services.ShippingLocationLuzon))
	assert.False(t, svc.IsValidLocation("ncr"))
}
