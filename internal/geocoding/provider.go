package geocoding

import (
	"context"

	"github.com/UnknownOlympus/addrcheck/internal/models"
)

// Address component types shared by every provider. Providers that use a different
// vocabulary map their fields onto these before returning candidates.
const (
	ComponentStreetNumber = "street_number"
	ComponentRoute        = "route"
	ComponentLocality     = "locality"
	ComponentState        = "administrative_area_level_1"
	ComponentPostalCode   = "postal_code"
	ComponentCountry      = "country"
)

// Provider is an interface over an external address-lookup service.
// Geocode resolves a free-text address, ReverseGeocode resolves a point.
// Both return the provider's candidates in the provider's own order; an empty
// slice with a nil error means the service found nothing.
type Provider interface {
	Geocode(ctx context.Context, address string) ([]models.Candidate, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) ([]models.Candidate, error)
}
