package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/addrcheck/internal/models"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// NominatimBaseURL is the public OpenStreetMap Nominatim endpoint.
const NominatimBaseURL = "https://nominatim.openstreetmap.org"

// NominatimProvider implements the Provider interface using OpenStreetMap's Nominatim API.
// This is a free geocoding service with usage limits (1 request/second for fair use).
type NominatimProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the Nominatim API
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Paces requests to the usage policy
	// userAgent is required by Nominatim usage policy
	userAgent string
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// nominatimAddress is the addressdetails breakdown of a Nominatim place.
type nominatimAddress struct {
	HouseNumber string `json:"house_number"`
	Road        string `json:"road"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	Hamlet      string `json:"hamlet"`
	State       string `json:"state"`
	StateCode   string `json:"ISO3166-2-lvl4"` // e.g. "US-CO"
	Postcode    string `json:"postcode"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
}

// nominatimPlace represents one place in a Nominatim JSON response.
type nominatimPlace struct {
	Lat         string           `json:"lat"` // Latitude as string
	Lon         string           `json:"lon"` // Longitude as string
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

// nominatimReverseResponse is a single place, or an error payload when nothing is at the point.
type nominatimReverseResponse struct {
	nominatimPlace

	Error string `json:"error"`
}

// ErrNominatimInvalidCoords is returned when a place carries unparsable coordinates.
var ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")

// NewNominatimProvider creates a new Nominatim geocoding provider.
// Uses the public Nominatim API endpoint by default.
func NewNominatimProvider(limiter *rate.Limiter, log *slog.Logger) *NominatimProvider {
	const timeout = 10
	return NewNominatimProviderWithClient(&http.Client{Timeout: timeout * time.Second}, limiter, log)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(client HTTPClient, limiter *rate.Limiter, log *slog.Logger) *NominatimProvider {
	return &NominatimProvider{
		client:  client,
		baseURL: NominatimBaseURL,
		log:     log,
		limiter: limiter,
		// User-Agent MUST include valid contact info per Nominatim usage policy:
		// https://operations.osmfoundation.org/policies/nominatim/
		userAgent: "Addrcheck-Geocoding-Helper/1.0 (https://github.com/UnknownOlympus/addrcheck)",
	}
}

// Geocode converts an address to candidates using the Nominatim search endpoint.
// Only the best match is requested, so the returned slice holds at most one candidate.
func (np *NominatimProvider) Geocode(ctx context.Context, address string) ([]models.Candidate, error) {
	np.log.DebugContext(ctx, "Geocoding using Nominatim", "address", address)

	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "jsonv2")
	query.Set("limit", "1")
	query.Set("addressdetails", "1")

	body, err := np.get(ctx, "/search", query)
	if err != nil {
		return nil, err
	}

	var places []nominatimPlace
	if err = json.Unmarshal(body, &places); err != nil {
		np.log.ErrorContext(ctx, "Failed to parse Nominatim response", "error", err, "body", string(body))
		return nil, eris.Wrap(err, "failed to decode nominatim search response")
	}

	candidates := make([]models.Candidate, 0, len(places))
	for _, place := range places {
		candidate, errConv := place.toCandidate()
		if errConv != nil {
			return nil, errConv
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// ReverseGeocode returns the place at the given point. Nominatim answers with an
// error payload rather than an HTTP error when nothing is there; that yields no candidates.
func (np *NominatimProvider) ReverseGeocode(ctx context.Context, lat, lng float64) ([]models.Candidate, error) {
	np.log.DebugContext(ctx, "Reverse geocoding using Nominatim", "lat", lat, "lng", lng)

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("format", "jsonv2")
	query.Set("addressdetails", "1")

	body, err := np.get(ctx, "/reverse", query)
	if err != nil {
		return nil, err
	}

	var resp nominatimReverseResponse
	if err = json.Unmarshal(body, &resp); err != nil {
		np.log.ErrorContext(ctx, "Failed to parse Nominatim response", "error", err, "body", string(body))
		return nil, eris.Wrap(err, "failed to decode nominatim reverse response")
	}

	if resp.Error != "" {
		np.log.DebugContext(ctx, "Nominatim found nothing at point", "reason", resp.Error)
		return []models.Candidate{}, nil
	}

	candidate, err := resp.toCandidate()
	if err != nil {
		return nil, err
	}

	return []models.Candidate{candidate}, nil
}

// get performs a rate limited GET against the given endpoint and returns the body of a 200 response.
func (np *NominatimProvider) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	if err := np.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "rate limit exceeded")
	}

	reqURL, err := url.Parse(np.baseURL + endpoint)
	if err != nil {
		return nil, eris.Wrap(err, "failed to parse base URL")
	}
	query.Set("accept-language", "en")
	reqURL.RawQuery = query.Encode()

	np.log.DebugContext(ctx, "Nominatim request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "failed to create request")
	}

	// Set required headers per Nominatim usage policy
	req.Header.Set("User-Agent", np.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "failed to execute geocoding request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, eris.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "failed to read response body")
	}

	np.log.DebugContext(ctx, "Nominatim raw response", "body", string(body))

	return body, nil
}

// toCandidate maps a Nominatim place onto the Google-style component vocabulary.
func (p nominatimPlace) toCandidate() (models.Candidate, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("%w: invalid latitude: %s", ErrNominatimInvalidCoords, p.Lat)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("%w: invalid longitude: %s", ErrNominatimInvalidCoords, p.Lon)
	}

	addr := p.Address
	var components []models.AddressComponent
	add := func(long, short, kind string) {
		if long == "" && short == "" {
			return
		}
		components = append(components, models.AddressComponent{LongName: long, ShortName: short, Types: []string{kind}})
	}

	add(addr.HouseNumber, addr.HouseNumber, ComponentStreetNumber)
	add(addr.Road, addr.Road, ComponentRoute)
	locality := firstNonEmpty(addr.City, addr.Town, addr.Village, addr.Hamlet)
	add(locality, locality, ComponentLocality)
	add(addr.State, stateCode(addr), ComponentState)
	add(addr.Postcode, addr.Postcode, ComponentPostalCode)
	add(addr.Country, strings.ToUpper(addr.CountryCode), ComponentCountry)

	return models.Candidate{
		FormattedAddress: p.DisplayName,
		Location:         models.Coordinates{Latitude: lat, Longitude: lon},
		Components:       components,
	}, nil
}

// stateCode turns "US-CO" into "CO", falling back to the full state name.
func stateCode(addr nominatimAddress) string {
	if idx := strings.LastIndex(addr.StateCode, "-"); idx >= 0 && idx < len(addr.StateCode)-1 {
		return addr.StateCode[idx+1:]
	}

	return addr.State
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
