package geocoding

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/addrcheck/internal/models"
	"github.com/rotisserie/eris"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It is used to interact with the
// Google Maps geocoding services.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient is the part of *maps.Client the provider depends on.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewGoogleProvider initializes a new GoogleProvider with the given client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode sends the address to the Google Maps Geocoding API and returns every result
// in the order Google listed them. ZERO_RESULTS comes back from the client as an empty
// slice and is passed through as such; any other non-OK status is an error.
func (gp *GoogleProvider) Geocode(ctx context.Context, address string) ([]models.Candidate, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "address", address)

	req := maps.GeocodingRequest{Address: address}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, eris.Wrap(err, "failed to geocode address")
	}

	gp.log.DebugContext(ctx, "Google Maps returned results", "address", address, "count", len(geocodeResponse))

	return toCandidates(geocodeResponse), nil
}

// ReverseGeocode asks the Google Maps Geocoding API for the addresses at the given point.
func (gp *GoogleProvider) ReverseGeocode(ctx context.Context, lat, lng float64) ([]models.Candidate, error) {
	gp.log.DebugContext(ctx, "Reverse geocoding using Google Maps", "lat", lat, "lng", lng)

	req := maps.GeocodingRequest{LatLng: &maps.LatLng{Lat: lat, Lng: lng}}
	geocodeResponse, err := gp.client.ReverseGeocode(ctx, &req)
	if err != nil {
		return nil, eris.Wrap(err, "failed to reverse geocode coordinates")
	}

	return toCandidates(geocodeResponse), nil
}

func toCandidates(results []maps.GeocodingResult) []models.Candidate {
	candidates := make([]models.Candidate, 0, len(results))
	for _, res := range results {
		components := make([]models.AddressComponent, 0, len(res.AddressComponents))
		for _, comp := range res.AddressComponents {
			components = append(components, models.AddressComponent{
				LongName:  comp.LongName,
				ShortName: comp.ShortName,
				Types:     comp.Types,
			})
		}

		candidates = append(candidates, models.Candidate{
			FormattedAddress: res.FormattedAddress,
			Location: models.Coordinates{
				Latitude:  res.Geometry.Location.Lat,
				Longitude: res.Geometry.Location.Lng,
			},
			Components: components,
		})
	}

	return candidates
}
