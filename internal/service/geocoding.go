package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/UnknownOlympus/addrcheck/internal/geocoding"
	"github.com/UnknownOlympus/addrcheck/internal/metrics"
	"github.com/UnknownOlympus/addrcheck/internal/models"
	"github.com/google/uuid"
)

// Operation names used in errors, logs and metric labels.
const (
	opGeocode  = "geocode"
	opReverse  = "reverse_geocode"
	opDetail   = "detail_multiple"
	opConcerns = "check_concerns"
)

// DefaultBatchDelay is the pause after each batch item.
const DefaultBatchDelay = 3 * time.Second

// GeocodingService geocodes, reverse geocodes and cross-checks addresses
// on top of a single geocoding provider.
type GeocodingService struct {
	log          *slog.Logger       // Logger for logging service activities
	provider     geocoding.Provider // Geocoding provider for external geocoding services
	providerName string             // Name of the provider for metrics labeling
	metrics      *metrics.Metrics   // Metrics for tracking service performance
	sleeper      Sleeper            // Sleeper pauses after each batch item
	batchDelay   time.Duration      // Pause after each batch item
}

// NewGeocodingService creates a new instance of GeocodingService.
// It takes a logger, a geocoding provider, provider name for metrics, metrics for
// monitoring, the sleeper used after each batch item and the length of that pause.
func NewGeocodingService(
	log *slog.Logger,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
	sleeper Sleeper,
	batchDelay time.Duration,
) *GeocodingService {
	return &GeocodingService{
		log:          log,
		provider:     provider,
		providerName: providerName,
		metrics:      metrics,
		sleeper:      sleeper,
		batchDelay:   batchDelay,
	}
}

// Geocode turns an address into coordinates and the provider's formatted address.
// Do not call it in a tight loop: the provider enforces call-rate quotas.
func (gs *GeocodingService) Geocode(ctx context.Context, address string) (*models.GeocodeResult, error) {
	if address == "" {
		return nil, gs.fail(opGeocode, withContext(ErrEmptyAddress, opGeocode, address))
	}

	startTime := time.Now()
	candidates, err := gs.provider.Geocode(ctx, address)
	gs.observe(opGeocode, startTime)

	if err != nil {
		gs.metrics.APIErrors.WithLabelValues(gs.providerName).Inc()
		gs.log.ErrorContext(ctx, "Failed to geocode", "address", address, "error", err)
		return nil, gs.fail(opGeocode, providerFailure(opGeocode, address, err))
	}

	if len(candidates) == 0 {
		gs.log.DebugContext(ctx, "No candidates for address", "address", address)
		return nil, gs.fail(opGeocode, withContext(ErrNoResult, opGeocode, address))
	}

	// The LAST candidate is used, not the first. This is intentional; do not "fix" it.
	candidate := candidates[len(candidates)-1]

	gs.metrics.Operations.WithLabelValues(opGeocode, "success").Inc()
	gs.log.DebugContext(ctx, "Address geocoded",
		"address", address,
		"formatted", candidate.FormattedAddress,
		"candidates", len(candidates),
	)

	return &models.GeocodeResult{
		FormattedAddress: candidate.FormattedAddress,
		Latitude:         candidate.Location.Latitude,
		Longitude:        candidate.Location.Longitude,
	}, nil
}

// ReverseGeocode returns a US style address "<number> <street>, <city> <state> <zip>"
// built from the short names of the first candidate at the given point.
func (gs *GeocodingService) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	input := formatLatLng(lat, lng)

	startTime := time.Now()
	candidates, err := gs.provider.ReverseGeocode(ctx, lat, lng)
	gs.observe(opReverse, startTime)

	if err != nil {
		gs.metrics.APIErrors.WithLabelValues(gs.providerName).Inc()
		gs.log.ErrorContext(ctx, "Failed to reverse geocode", "lat", lat, "lng", lng, "error", err)
		// Denied or over-quota statuses are provider failures, not "no location".
		return "", gs.fail(opReverse, providerFailure(opReverse, input, err))
	}

	if len(candidates) == 0 {
		return "", gs.fail(opReverse, withContext(ErrNoLocation, opReverse, input))
	}

	components := candidates[0].Components
	number := shortName(components, geocoding.ComponentStreetNumber)
	street := shortName(components, geocoding.ComponentRoute)
	city := shortName(components, geocoding.ComponentLocality)
	state := shortName(components, geocoding.ComponentState)
	zip := shortName(components, geocoding.ComponentPostalCode)

	if number+street+city+state+zip == "" {
		return "", gs.fail(opReverse, withContext(ErrNoLocation, opReverse, input))
	}

	gs.metrics.Operations.WithLabelValues(opReverse, "success").Inc()

	return number + " " + street + ", " + city + " " + state + " " + zip, nil
}

// DetailMultiple geocodes every address, reverse geocodes the resulting point and
// checks the two answers against the input. Results keep the input order.
// A nil list is rejected, an empty one gives an empty result.
// The first failing address aborts the whole batch.
func (gs *GeocodingService) DetailMultiple(ctx context.Context, addresses []string) ([]models.DetailedResult, error) {
	if addresses == nil {
		return nil, gs.fail(opDetail, withContext(ErrEmptyInput, opDetail, ""))
	}

	batchID := uuid.NewString()
	log := gs.log.With("batch", batchID)

	gs.metrics.ActiveBatches.Inc()
	defer gs.metrics.ActiveBatches.Dec()

	log.InfoContext(ctx, "Starting batch detail", "addresses", len(addresses), "delay", gs.batchDelay)

	results := make([]models.DetailedResult, 0, len(addresses))
	for idx, address := range addresses {
		result, err := gs.detail(ctx, address)
		if err != nil {
			log.WarnContext(ctx, "Batch detail aborted", "index", idx, "address", address, "error", err)
			gs.metrics.Operations.WithLabelValues(opDetail, "failure").Inc()
			return nil, err
		}

		log.DebugContext(ctx, "Address detailed", "index", idx, "concerns", len(result.Concerns))
		results = append(results, *result)

		// The pause follows every item, the last one included.
		if err = gs.sleeper.Sleep(ctx, gs.batchDelay); err != nil {
			gs.metrics.Operations.WithLabelValues(opDetail, "failure").Inc()
			return nil, fmt.Errorf("batch interrupted after address %d: %w", idx, err)
		}
	}

	gs.metrics.Operations.WithLabelValues(opDetail, "success").Inc()
	log.InfoContext(ctx, "Batch detail finished", "addresses", len(results))

	return results, nil
}

// DetailMultipleValue is DetailMultiple for loosely typed input such as a value read
// from configuration. It accepts a []string or a []any holding only strings;
// anything else is rejected before the provider is called.
func (gs *GeocodingService) DetailMultipleValue(ctx context.Context, input any) ([]models.DetailedResult, error) {
	switch value := input.(type) {
	case nil:
		return nil, gs.fail(opDetail, withContext(ErrEmptyInput, opDetail, ""))
	case []string:
		return gs.DetailMultiple(ctx, value)
	case []any:
		addresses := make([]string, 0, len(value))
		for _, item := range value {
			address, ok := item.(string)
			if !ok {
				return nil, gs.fail(opDetail, withContext(ErrNotAList, opDetail, fmt.Sprint(input)))
			}
			addresses = append(addresses, address)
		}
		return gs.DetailMultiple(ctx, addresses)
	default:
		return nil, gs.fail(opDetail, withContext(ErrNotAList, opDetail, fmt.Sprint(input)))
	}
}

func (gs *GeocodingService) detail(ctx context.Context, address string) (*models.DetailedResult, error) {
	geo, err := gs.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	reverse, err := gs.ReverseGeocode(ctx, geo.Latitude, geo.Longitude)
	if err != nil {
		return nil, err
	}

	concerns, err := CheckConcerns(address, geo.FormattedAddress, reverse)
	if err != nil {
		return nil, err
	}

	for _, concern := range concerns {
		gs.metrics.Concerns.WithLabelValues(concernKind(concern)).Inc()
	}

	return &models.DetailedResult{
		InputAddress:     address,
		FormattedAddress: geo.FormattedAddress,
		Latitude:         geo.Latitude,
		Longitude:        geo.Longitude,
		ReverseAddress:   reverse,
		Concerns:         concerns,
	}, nil
}

// fail records a failed operation and passes the error through.
func (gs *GeocodingService) fail(op string, err *Error) *Error {
	gs.metrics.Operations.WithLabelValues(op, "failure").Inc()
	return err
}

func (gs *GeocodingService) observe(op string, startTime time.Time) {
	gs.metrics.RequestSeconds.WithLabelValues(gs.providerName, op).Observe(time.Since(startTime).Seconds())
}

// shortName returns the short name of the first component tagged with kind.
func shortName(components []models.AddressComponent, kind string) string {
	for _, comp := range components {
		for _, t := range comp.Types {
			if t == kind {
				return comp.ShortName
			}
		}
	}

	return ""
}

func concernKind(concern string) string {
	switch concern {
	case ConcernFormattedMismatch:
		return "formatted"
	case ConcernReverseMismatch:
		return "reverse"
	default:
		return "other"
	}
}

func formatLatLng(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}
