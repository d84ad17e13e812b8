package config_test

import (
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/addrcheck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad_FromEnv(t *testing.T) {
	t.Setenv("ADDRCHECK_ENV", "local")
	t.Setenv("ADDRCHECK_PORT", "9090")
	t.Setenv("ADDRCHECK_PROVIDER_TYPE", "nominatim")
	t.Setenv("ADDRCHECK_PROVIDER_KEY", "testAPIKey")
	t.Setenv("ADDRCHECK_BATCH_DELAY", "500ms")
	t.Setenv("ADDRCHECK_DEMO_ON_START", "true")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "nominatim", cfg.ProviderType)
	assert.Equal(t, "testAPIKey", cfg.APIKey)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchDelay)
	assert.True(t, cfg.Demo.OnStart)
}

func TestMustLoad_Defaults(t *testing.T) {
	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "google", cfg.ProviderType)
	assert.Equal(t, 3*time.Second, cfg.BatchDelay)
	assert.False(t, cfg.Demo.OnStart)
	assert.Equal(t, "7800 Smith Rd Denver CO 80207", cfg.Demo.Address)
	assert.InDelta(t, 39.67829, cfg.Demo.Latitude, 0.000001)
	assert.InDelta(t, -104.91202, cfg.Demo.Longitude, 0.000001)
	assert.Equal(t, []string{
		"4600 Letsdale Dr Glendale   CO 80246",
		"4600 Leetsdale Dr Glendale CO 80236",
	}, cfg.Demo.Addresses)
}

func TestMustLoad_FromFile(t *testing.T) {
	defer filet.CleanUp(t)

	file := filet.TmpFile(t, "", `
env: development
port: 8181
provider:
  type: google
  key: fileKey
  rate_limit: 25
batch:
  delay: 1s
demo:
  address: 2770 West Evans Avenue, Denver, CO 80219
  addresses:
    - 4600 Leetsdale Dr, Glendale, CO 80246
    - 2770 West Evans Avenue, Denver, CO 80219
`)
	t.Setenv("ADDRCHECK_CONFIG", file.Name())
	t.Setenv("ADDRCHECK_PROVIDER_KEY", "envKey")

	cfg := config.MustLoad()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 8181, cfg.Port)
	assert.Equal(t, 25, cfg.RateLimit)
	assert.Equal(t, time.Second, cfg.BatchDelay)
	assert.Equal(t, "envKey", cfg.APIKey, "environment overrides the file")
	assert.Equal(t, "2770 West Evans Avenue, Denver, CO 80219", cfg.Demo.Address)
	require.IsType(t, []any{}, cfg.Demo.Addresses)
	assert.Len(t, cfg.Demo.Addresses, 2)
}

func TestMustLoad_AddressesFromEnv(t *testing.T) {
	t.Run("semicolons separate the addresses", func(t *testing.T) {
		t.Setenv("ADDRCHECK_DEMO_ADDRESSES",
			"4600 Leetsdale Dr, Glendale, CO 80246; 2770 West Evans Avenue, Denver, CO 80219")

		cfg := config.MustLoad()

		assert.Equal(t, []string{
			"4600 Leetsdale Dr, Glendale, CO 80246",
			"2770 West Evans Avenue, Denver, CO 80219",
		}, cfg.Demo.Addresses)
	})

	t.Run("a single address is a one-element list", func(t *testing.T) {
		t.Setenv("ADDRCHECK_DEMO_ADDRESSES", "7800 Smith Rd Denver CO 80207")

		cfg := config.MustLoad()

		assert.Equal(t, []string{"7800 Smith Rd Denver CO 80207"}, cfg.Demo.Addresses)
	})
}

func TestMustLoad_Errors(t *testing.T) {
	tests := []struct {
		env   string
		value string
		panic string
	}{
		{"ADDRCHECK_PORT", "error_value", "failed to parse port for web server from configuration"},
		{
			"ADDRCHECK_PROVIDER_RATE_LIMIT", "error_value",
			"failed to parse provider rate limit from configuration, must be an integer types",
		},
		{"ADDRCHECK_BATCH_DELAY", "error_value", "failed to parse batch delay from configuration"},
		{"ADDRCHECK_DEMO_ON_START", "error_value", "failed to parse demo start-up flag from configuration"},
		{"ADDRCHECK_DEMO_LATITUDE", "error_value", "failed to parse demo coordinates from configuration"},
		{"ADDRCHECK_CONFIG", "/nonexistent/addrcheck.yaml", "failed to read configuration file"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)

			assert.PanicsWithValue(t, tt.panic, func() {
				config.MustLoad()
			})
		})
	}
}
