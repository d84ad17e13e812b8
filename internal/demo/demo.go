package demo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/addrcheck/internal/models"
	"github.com/UnknownOlympus/addrcheck/internal/service"
)

// Geocoder is the part of the geocoding service shown by the demos.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.GeocodeResult, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
	DetailMultipleValue(ctx context.Context, input any) ([]models.DetailedResult, error)
}

// Inputs are the values fed to the three demos.
type Inputs struct {
	Address   string
	Latitude  float64
	Longitude float64
	Addresses any
}

// Entry is the outcome of one demo: JSON encoded input and output, or the error text and kind.
type Entry struct {
	Title   string
	Input   string
	Output  string
	Err     string
	ErrKind string
}

// Runner runs the demos against a geocoder.
type Runner struct {
	log      *slog.Logger
	geocoder Geocoder
	inputs   Inputs
}

// NewRunner creates a demo runner.
func NewRunner(log *slog.Logger, geocoder Geocoder, inputs Inputs) *Runner {
	return &Runner{log: log, geocoder: geocoder, inputs: inputs}
}

// Inputs returns the configured demo inputs.
func (r *Runner) Inputs() Inputs {
	return r.inputs
}

// Run executes the demos in order. A failing demo does not stop the next one.
func (r *Runner) Run(ctx context.Context) []Entry {
	entries := []Entry{
		r.geocode(ctx),
		r.reverseGeocode(ctx),
		r.detailMultiple(ctx),
	}

	for _, entry := range entries {
		if entry.Err != "" {
			r.log.WarnContext(ctx, "Demo failed",
				"demo", entry.Title,
				"input", entry.Input,
				"kind", entry.ErrKind,
				"error", entry.Err,
			)
			continue
		}
		r.log.InfoContext(ctx, "Demo finished", "demo", entry.Title, "input", entry.Input, "output", entry.Output)
	}

	return entries
}

func (r *Runner) geocode(ctx context.Context) Entry {
	title := fmt.Sprintf("Basic geocoding of %q", r.inputs.Address)
	result, err := r.geocoder.Geocode(ctx, r.inputs.Address)

	return newEntry(title, []string{r.inputs.Address}, result, err)
}

func (r *Runner) reverseGeocode(ctx context.Context) Entry {
	title := fmt.Sprintf("Reverse geocoding of %s", formatPoint(r.inputs.Latitude, r.inputs.Longitude))
	address, err := r.geocoder.ReverseGeocode(ctx, r.inputs.Latitude, r.inputs.Longitude)

	return newEntry(title, []float64{r.inputs.Latitude, r.inputs.Longitude}, address, err)
}

func (r *Runner) detailMultiple(ctx context.Context) Entry {
	title := "Detailed geocoding of multiple addresses"
	results, err := r.geocoder.DetailMultipleValue(ctx, r.inputs.Addresses)

	return newEntry(title, r.inputs.Addresses, results, err)
}

func newEntry(title string, input, output any, err error) Entry {
	entry := Entry{Title: title, Input: encode(input)}
	if err != nil {
		entry.Err = err.Error()
		entry.ErrKind = service.KindOf(err).String()
		return entry
	}
	entry.Output = encode(output)

	return entry
}

func encode(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}

	return string(data)
}

func formatPoint(lat, lng float64) string {
	return fmt.Sprintf("%g,%g", lat, lng)
}
