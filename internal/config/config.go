package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix prefixes every environment variable read by MustLoad.
const envPrefix = "ADDRCHECK"

// Config holds the configuration settings for the address checker.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the web entry point.
// - ProviderType: The type of geocoding provider to use (google, nominatim).
// - APIKey: The API key for the provider (required for Google).
// - RateLimit: Requests per second allowed towards the provider.
// - BatchDelay: The pause after each address of a batch detail run.
// - Demo: Inputs of the demonstration runs.
type Config struct {
	Env          string        `yaml:"env"`                 // Env is the current environment: local, development, production.
	Port         int           `yaml:"port"`                // Port is the web server port.
	ProviderType string        `yaml:"provider.type"`       // ProviderType specifies which geocoding provider to use
	APIKey       string        `yaml:"provider.key"`        // The API key for accessing the provider.
	RateLimit    int           `yaml:"provider.rate_limit"` // Requests per second towards the provider.
	BatchDelay   time.Duration `yaml:"batch.delay"`         // The pause after each batch item.
	Demo         DemoConfig    `yaml:"demo"`                // Demo holds the demonstration inputs.
}

// DemoConfig holds the inputs of the demonstration runs.
type DemoConfig struct {
	OnStart   bool    `yaml:"on_start"`  // OnStart runs the demos once at start-up and logs the results.
	Address   string  `yaml:"address"`   // Address is geocoded by the first demo.
	Latitude  float64 `yaml:"latitude"`  // Latitude is reverse geocoded by the second demo.
	Longitude float64 `yaml:"longitude"` // Longitude is reverse geocoded by the second demo.
	// Addresses is a YAML list ([]any) from a file or a []string split from the
	// semicolon separated environment value.
	Addresses any `yaml:"addresses"`
}

// MustLoad loads the configuration from the environment, an optional .env file and an
// optional YAML file named by ADDRCHECK_CONFIG. It panics on invalid values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "production")
	v.SetDefault("port", "8080")
	v.SetDefault("provider.type", "google")
	v.SetDefault("provider.key", "")
	v.SetDefault("provider.rate_limit", "10")
	v.SetDefault("batch.delay", "3s")
	v.SetDefault("demo.on_start", "false")
	v.SetDefault("demo.address", "7800 Smith Rd Denver CO 80207")
	v.SetDefault("demo.latitude", "39.67829")
	v.SetDefault("demo.longitude", "-104.91202")
	v.SetDefault("demo.addresses", []string{
		"4600 Letsdale Dr Glendale   CO 80246",
		"4600 Leetsdale Dr Glendale CO 80236",
	})

	if path, ok := os.LookupEnv(envPrefix + "_CONFIG"); ok && path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	port, err := strconv.Atoi(v.GetString("port"))
	if err != nil {
		panic("failed to parse port for web server from configuration")
	}

	rateLimit, err := strconv.Atoi(v.GetString("provider.rate_limit"))
	if err != nil {
		panic("failed to parse provider rate limit from configuration, must be an integer types")
	}

	delay, err := time.ParseDuration(v.GetString("batch.delay"))
	if err != nil {
		panic("failed to parse batch delay from configuration")
	}

	onStart, err := strconv.ParseBool(v.GetString("demo.on_start"))
	if err != nil {
		panic("failed to parse demo start-up flag from configuration")
	}

	lat, err := strconv.ParseFloat(v.GetString("demo.latitude"), 64)
	if err != nil {
		panic("failed to parse demo coordinates from configuration")
	}

	lon, err := strconv.ParseFloat(v.GetString("demo.longitude"), 64)
	if err != nil {
		panic("failed to parse demo coordinates from configuration")
	}

	return &Config{
		Env:          v.GetString("env"),
		Port:         port,
		ProviderType: v.GetString("provider.type"),
		APIKey:       v.GetString("provider.key"),
		RateLimit:    rateLimit,
		BatchDelay:   delay,
		Demo: DemoConfig{
			OnStart:   onStart,
			Address:   v.GetString("demo.address"),
			Latitude:  lat,
			Longitude: lon,
			Addresses: demoAddresses(v.Get("demo.addresses")),
		},
	}
}

// demoAddresses splits a semicolon separated value, as read from the environment, into a list.
// Anything else is passed through untouched.
func demoAddresses(raw any) any {
	value, ok := raw.(string)
	if !ok {
		return raw
	}

	parts := strings.Split(value, ";")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}

	return parts
}
