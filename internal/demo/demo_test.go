package demo_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/addrcheck/internal/demo"
	"github.com/UnknownOlympus/addrcheck/internal/models"
	"github.com/UnknownOlympus/addrcheck/internal/service"
	"github.com/UnknownOlympus/addrcheck/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testInputs() demo.Inputs {
	return demo.Inputs{
		Address:   "7800 Smith Rd Denver CO 80207",
		Latitude:  39.67829,
		Longitude: -104.91202,
		Addresses: []any{"4600 Letsdale Dr Glendale   CO 80246"},
	}
}

func TestRunnerRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("encodes inputs and outputs of every demo", func(t *testing.T) {
		geocoder := mocks.NewGeocoder(t)
		inputs := testInputs()

		geocoder.On("Geocode", mock.Anything, inputs.Address).Return(&models.GeocodeResult{
			FormattedAddress: "7800 Smith Rd, Denver, CO 80207, USA",
			Latitude:         39.7697618,
			Longitude:        -104.8976515,
		}, nil).Once()
		geocoder.On("ReverseGeocode", mock.Anything, inputs.Latitude, inputs.Longitude).
			Return("6550 E Evans Ave, Denver CO 80224", nil).Once()
		geocoder.On("DetailMultipleValue", mock.Anything, inputs.Addresses).Return([]models.DetailedResult{{
			InputAddress:     "4600 Letsdale Dr Glendale   CO 80246",
			FormattedAddress: "4600 Leetsdale Dr, Glendale, CO 80246, USA",
			Latitude:         39.7084673,
			Longitude:        -104.9326797,
			ReverseAddress:   "4600 Leetsdale Dr, Glendale CO 80246",
			Concerns:         []string{},
		}}, nil).Once()

		entries := demo.NewRunner(logger, geocoder, inputs).Run(t.Context())

		require.Len(t, entries, 3)

		assert.Equal(t, `Basic geocoding of "7800 Smith Rd Denver CO 80207"`, entries[0].Title)
		assert.JSONEq(t, `["7800 Smith Rd Denver CO 80207"]`, entries[0].Input)
		assert.JSONEq(t, `{"fma":"7800 Smith Rd, Denver, CO 80207, USA","lat":39.7697618,"lon":-104.8976515}`,
			entries[0].Output)
		assert.Empty(t, entries[0].Err)
		assert.Empty(t, entries[0].ErrKind)

		assert.Equal(t, "Reverse geocoding of 39.67829,-104.91202", entries[1].Title)
		assert.JSONEq(t, `[39.67829,-104.91202]`, entries[1].Input)
		assert.JSONEq(t, `"6550 E Evans Ave, Denver CO 80224"`, entries[1].Output)

		assert.JSONEq(t, `["4600 Letsdale Dr Glendale   CO 80246"]`, entries[2].Input)
		assert.JSONEq(t, `[{
			"ina":"4600 Letsdale Dr Glendale   CO 80246",
			"fma":"4600 Leetsdale Dr, Glendale, CO 80246, USA",
			"lat":39.7084673,
			"lon":-104.9326797,
			"rva":"4600 Leetsdale Dr, Glendale CO 80246",
			"concerns":[]
		}]`, entries[2].Output)
	})

	t.Run("a failing demo keeps the error text and the rest still run", func(t *testing.T) {
		geocoder := mocks.NewGeocoder(t)
		inputs := testInputs()
		inputs.Addresses = "test test test"

		geocoder.On("Geocode", mock.Anything, inputs.Address).Return(nil, service.ErrNoResult).Once()
		geocoder.On("ReverseGeocode", mock.Anything, inputs.Latitude, inputs.Longitude).
			Return("", service.ErrNoLocation).Once()
		geocoder.On("DetailMultipleValue", mock.Anything, "test test test").Return(nil, service.ErrNotAList).Once()

		entries := demo.NewRunner(logger, geocoder, inputs).Run(t.Context())

		require.Len(t, entries, 3)
		assert.Equal(t, service.ErrNoResult.Error(), entries[0].Err)
		assert.Equal(t, "not found", entries[0].ErrKind)
		assert.Empty(t, entries[0].Output)
		assert.Equal(t, "No location at lat/lon", entries[1].Err)
		assert.Equal(t, `"test test test"`, entries[2].Input)
		assert.Equal(t, "Cannot get address details from non-array", entries[2].Err)
		assert.Equal(t, "invalid input", entries[2].ErrKind)
	})

	t.Run("inputs are exposed for the demo page", func(t *testing.T) {
		runner := demo.NewRunner(logger, mocks.NewGeocoder(t), testInputs())

		assert.Equal(t, testInputs(), runner.Inputs())
	})
}
