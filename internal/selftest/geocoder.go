package selftest

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/addrcheck/internal/models"
	"github.com/UnknownOlympus/addrcheck/internal/service"
	"github.com/stretchr/testify/assert"
)

// Geocoder is the part of the geocoding service exercised by the suite.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.GeocodeResult, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
	DetailMultipleValue(ctx context.Context, input any) ([]models.DetailedResult, error)
}

// Known addresses and points used by the live checks.
const (
	leetsdaleAddress  = "4600 Leetsdale Dr, Glendale, CO 80246"
	misspelledAddress = "4600 Letsdale Dr Glendale CO 80246"
	wrongZipAddress   = "4600 Leetsdale Dr, Glendale CO 80236"
	evansAddress      = "2770 West Evans Avenue, Denver, CO 80219"
	garbageAddress    = "4anmdsijnsifbr600 Leetsdafsadfdsale Drasdfdsf"

	leetsdaleLat = 39.7084673
	leetsdaleLng = -104.9326797
	oceanLat     = 25.74381
	oceanLng     = -79.54583

	delta = 0.005
)

// NewGeocoderSuite builds the live suite run against a configured geocoder.
// Every check talks to the real provider.
func NewGeocoderSuite(log *slog.Logger, geocoder Geocoder) *Suite {
	return NewSuite(log,
		geocoderModule(geocoder),
		reverseModule(geocoder),
		multipleModule(geocoder),
		checkerModule(),
	)
}

func geocoderModule(gc Geocoder) Module {
	return Module{
		Name: "Geocoder",
		Checks: []Check{
			{
				Name: "Cannot geocode empty address",
				Run: func(ctx context.Context, t *T) {
					_, err := gc.Geocode(ctx, "")
					assert.ErrorIs(t, err, service.ErrEmptyAddress)
				},
			},
			{
				Name: "Geocoding returns non-blank lat, lon and formatted address",
				Run: func(ctx context.Context, t *T) {
					res, err := gc.Geocode(ctx, leetsdaleAddress)
					if !assert.NoError(t, err) {
						return
					}
					assert.NotEmpty(t, res.FormattedAddress)
					assert.NotZero(t, res.Latitude)
					assert.NotZero(t, res.Longitude)
				},
			},
			{
				Name: "Geocoding returns reasonable lat and lon",
				Run: func(ctx context.Context, t *T) {
					res, err := gc.Geocode(ctx, leetsdaleAddress)
					if !assert.NoError(t, err) {
						return
					}
					assert.InDelta(t, 39.71, res.Latitude, delta)
					assert.InDelta(t, -104.93, res.Longitude, delta)
				},
			},
			{
				Name: "Geocoding returns good formatted address",
				Run: func(ctx context.Context, t *T) {
					res, err := gc.Geocode(ctx, leetsdaleAddress)
					if !assert.NoError(t, err) {
						return
					}
					for _, part := range []string{"4600 Leetsdale", "Glendale", "CO", "80246"} {
						assert.Contains(t, res.FormattedAddress, part)
					}
				},
			},
			{
				Name: "Geocoding fixes a misspelled street",
				Run: func(ctx context.Context, t *T) {
					res, err := gc.Geocode(ctx, misspelledAddress)
					if !assert.NoError(t, err) {
						return
					}
					assert.Contains(t, res.FormattedAddress, "Leetsdale")
					assert.InDelta(t, 39.7085, res.Latitude, delta)
					assert.InDelta(t, -104.9327, res.Longitude, delta)
				},
			},
			{
				Name: "Geocoding fails for unreasonable address",
				Run: func(ctx context.Context, t *T) {
					_, err := gc.Geocode(ctx, garbageAddress)
					assert.ErrorIs(t, err, service.ErrNoResult)
				},
			},
		},
	}
}

func reverseModule(gc Geocoder) Module {
	return Module{
		Name: "ReverseGeocoder",
		Checks: []Check{
			{
				Name: "Reverse geocoding returns reasonable address for actual lat/lon",
				Run: func(ctx context.Context, t *T) {
					address, err := gc.ReverseGeocode(ctx, leetsdaleLat, leetsdaleLng)
					if !assert.NoError(t, err) {
						return
					}
					for _, part := range []string{"Leetsdale", "Glendale", "CO", "80246"} {
						assert.Contains(t, address, part)
					}
				},
			},
			{
				Name: "Reverse geocoding fails for unreasonable lat/lon",
				Run: func(ctx context.Context, t *T) {
					_, err := gc.ReverseGeocode(ctx, oceanLat, oceanLng)
					assert.ErrorIs(t, err, service.ErrNoLocation)
				},
			},
		},
	}
}

func multipleModule(gc Geocoder) Module {
	return Module{
		Name: "MultipleAddressGeocoder",
		Checks: []Check{
			{
				Name: "Cannot detail missing input",
				Run: func(ctx context.Context, t *T) {
					_, err := gc.DetailMultipleValue(ctx, nil)
					assert.ErrorIs(t, err, service.ErrEmptyInput)
				},
			},
			{
				Name: "Cannot detail a non-list",
				Run: func(ctx context.Context, t *T) {
					_, err := gc.DetailMultipleValue(ctx, "test test test")
					assert.ErrorIs(t, err, service.ErrNotAList)
				},
			},
			{
				Name: "Cannot detail a list with blank elements",
				Run: func(ctx context.Context, t *T) {
					_, err := gc.DetailMultipleValue(ctx, []string{leetsdaleAddress, ""})
					assert.ErrorIs(t, err, service.ErrEmptyAddress)
				},
			},
			{
				Name: "Detailing known good addresses returns correct values",
				Run: func(ctx context.Context, t *T) {
					results, err := gc.DetailMultipleValue(ctx, []string{leetsdaleAddress, evansAddress})
					if !assert.NoError(t, err) || !assert.Len(t, results, 2) {
						return
					}

					first, second := results[0], results[1]
					assert.InDelta(t, 39.71, first.Latitude, delta)
					assert.InDelta(t, -104.93, first.Longitude, delta)
					for _, part := range []string{"4600 Leetsdale", "Glendale", "CO", "80246"} {
						assert.Contains(t, first.FormattedAddress, part)
						assert.Contains(t, first.ReverseAddress, part)
					}
					assert.NotNil(t, first.Concerns)

					assert.InDelta(t, 39.68, second.Latitude, delta)
					assert.InDelta(t, -105.02, second.Longitude, delta)
					for _, part := range []string{"2770 W", "Evans", "CO", "80219"} {
						assert.Contains(t, second.FormattedAddress, part)
						assert.Contains(t, second.ReverseAddress, part)
					}
					assert.NotNil(t, second.Concerns)
				},
			},
			{
				Name: "Detailing a misspelled address raises no concern",
				Run: func(ctx context.Context, t *T) {
					results, err := gc.DetailMultipleValue(ctx, []string{misspelledAddress})
					if !assert.NoError(t, err) || !assert.Len(t, results, 1) {
						return
					}
					assert.Empty(t, results[0].Concerns)
				},
			},
			{
				Name: "Detailing a mistaken zip code raises the reverse concern",
				Run: func(ctx context.Context, t *T) {
					results, err := gc.DetailMultipleValue(ctx, []string{wrongZipAddress})
					if !assert.NoError(t, err) || !assert.Len(t, results, 1) {
						return
					}
					assert.Contains(t, results[0].Concerns, service.ConcernReverseMismatch)
				},
			},
		},
	}
}

func checkerModule() Module {
	const address = "1234 N St, Denver, CO 80230"
	const other = "9999 N St, Denver, CO 80230"

	missing := func(input, formatted, reverse string) func(context.Context, *T) {
		return func(_ context.Context, t *T) {
			_, err := service.CheckConcerns(input, formatted, reverse)
			assert.ErrorIs(t, err, service.ErrMissingField)
		}
	}

	return Module{
		Name: "ConsistencyChecker",
		Checks: []Check{
			{Name: "Checker requires the input address", Run: missing("", address, address)},
			{Name: "Checker requires the formatted address", Run: missing(address, "", address)},
			{Name: "Checker requires the reverse address", Run: missing(address, address, "")},
			{
				Name: "Checker returns no concerns when all addresses are equal",
				Run: func(_ context.Context, t *T) {
					concerns, err := service.CheckConcerns(address, address, address)
					assert.NoError(t, err)
					assert.Empty(t, concerns)
				},
			},
			{
				Name: "Checker flags formatted address numbers",
				Run: func(_ context.Context, t *T) {
					concerns, err := service.CheckConcerns(address, other, address)
					assert.NoError(t, err)
					assert.Equal(t, []string{service.ConcernFormattedMismatch}, concerns)
				},
			},
			{
				Name: "Checker flags reverse address numbers",
				Run: func(_ context.Context, t *T) {
					concerns, err := service.CheckConcerns(address, address, other)
					assert.NoError(t, err)
					assert.Equal(t, []string{service.ConcernReverseMismatch}, concerns)
				},
			},
		},
	}
}
