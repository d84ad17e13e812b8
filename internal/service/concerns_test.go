package service_test

import (
	"testing"

	"github.com/UnknownOlympus/addrcheck/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConcerns_MissingField(t *testing.T) {
	const addr = "1234 N St, Denver, CO 80230"

	tests := []struct {
		name                      string
		input, formatted, reverse string
	}{
		{name: "missing input", formatted: addr, reverse: addr},
		{name: "missing formatted", input: addr, reverse: addr},
		{name: "missing reverse", input: addr, formatted: addr},
		{name: "all missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			concerns, err := service.CheckConcerns(tt.input, tt.formatted, tt.reverse)

			require.Nil(t, concerns)
			require.ErrorIs(t, err, service.ErrMissingField)
			require.ErrorIs(t, err, service.ErrInvalidInput)
			assert.Equal(t, "Function requires ina, rva, and fma before inspection.", err.Error())
		})
	}
}

func TestCheckConcerns(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		formatted string
		reverse   string
		want      []string
	}{
		{
			name:      "all three equal",
			input:     "1234 N St, Denver, CO 80230",
			formatted: "1234 N St, Denver, CO 80230",
			reverse:   "1234 N St, Denver, CO 80230",
			want:      []string{},
		},
		{
			name:      "formatted differs",
			input:     "1234 N St, Denver, CO 80230",
			formatted: "9999 N St, Denver, CO 80230",
			reverse:   "1234 N St, Denver, CO 80230",
			want:      []string{service.ConcernFormattedMismatch},
		},
		{
			name:      "reverse differs",
			input:     "1234 N St, Denver, CO 80230",
			formatted: "1234 N St, Denver, CO 80230",
			reverse:   "9999 N St, Denver, CO 80230",
			want:      []string{service.ConcernReverseMismatch},
		},
		{
			name:      "both differ",
			input:     "4600 Leetsdale Dr, Glendale CO 80236",
			formatted: "4600 Leetsdale Dr, Glendale, CO 80246, USA",
			reverse:   "4600 Leetsdale Dr, Glendale CO 80246",
			want:      []string{service.ConcernFormattedMismatch, service.ConcernReverseMismatch},
		},
		{
			name:      "formatting and spelling differences are ignored",
			input:     "4600 Letsdale Dr Glendale   CO 80246",
			formatted: "4600 Leetsdale Dr, Glendale, CO 80246, USA",
			reverse:   "4600 Leetsdale Dr, Glendale CO 80246",
			want:      []string{},
		},
		{
			name:      "leading zeros compare by value",
			input:     "12 Main St, Boston MA 02108",
			formatted: "12 Main St, Boston, MA 2108",
			reverse:   "012 Main St, Boston MA 02108",
			want:      []string{},
		},
		{
			name:      "suite number missing from reverse is reported",
			input:     "4600 Leetsdale Dr Suite 200, Glendale CO 80246",
			formatted: "4600 Leetsdale Dr #200, Glendale, CO 80246, USA",
			reverse:   "4600 Leetsdale Dr, Glendale CO 80246",
			want:      []string{service.ConcernReverseMismatch},
		},
		{
			name:      "order matters",
			input:     "80246 4600",
			formatted: "4600 80246",
			reverse:   "80246 4600",
			want:      []string{service.ConcernFormattedMismatch},
		},
		{
			name:      "no digits anywhere",
			input:     "Main St",
			formatted: "Main Street",
			reverse:   "Main St",
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			concerns, err := service.CheckConcerns(tt.input, tt.formatted, tt.reverse)

			require.NoError(t, err)
			require.NotNil(t, concerns)
			assert.Equal(t, tt.want, concerns)
		})
	}
}
