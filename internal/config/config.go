package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-destination-advisor/internal/common"
	"github.com/i474232898/weather-destination-advisor/internal/weather/providers"
)

const (
	GeocoderOpenMeteo = "openmeteo"
	GeocoderGoogle    = "google"
)

type AppConfig struct {
	Port     string `yaml:"port" validate:"required,numeric"`
	LogLevel string `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`

	HTTP     HTTPConfig     `yaml:"http"`
	Geocoder GeocoderConfig `yaml:"geocoder"`

	ForecastURL string `yaml:"forecastUrl" validate:"required,url"`

	// Watchlist is evaluated periodically by the scheduler.
	Watchlist     []string      `yaml:"watchlist" validate:"dive,required"`
	FetchInterval time.Duration `yaml:"fetchInterval" validate:"gt=0"`

	// In-memory report store retention.
	StoreMaxHistory int           `yaml:"storeMaxHistory" validate:"gte=0"` // 0 = unlimited
	StoreMaxAge     time.Duration `yaml:"storeMaxAge" validate:"gte=0"`     // 0 = unlimited
}

// HTTPConfig controls outbound calls to geocoding and forecast services.
type HTTPConfig struct {
	Timeout        time.Duration `yaml:"timeout" validate:"gt=0"`
	Retries        int           `yaml:"retries" validate:"gte=0,lte=10"`
	BackoffInitial time.Duration `yaml:"backoffInitial" validate:"gt=0"`
	BackoffMax     time.Duration `yaml:"backoffMax" validate:"gtefield=BackoffInitial"`
}

// GeocoderConfig selects and configures the geocoding backend.
type GeocoderConfig struct {
	Provider     string `yaml:"provider" validate:"oneof=openmeteo google"`
	URL          string `yaml:"url" validate:"required,url"`
	GoogleAPIKey string `yaml:"googleApiKey" validate:"required_if=Provider google"`
}

// Backoff converts the HTTP settings into provider backoff settings.
func (h HTTPConfig) Backoff() providers.BackoffConfig {
	return providers.BackoffConfig{
		MaxRetries:      h.Retries,
		InitialInterval: h.BackoffInitial,
		MaxInterval:     h.BackoffMax,
	}
}

var validate = validator.New()

// Load reads configuration from an optional .env file, an optional YAML file
// (CONFIG_PATH) and the environment, in increasing order of precedence.
func Load() (*AppConfig, error) {
	// a missing .env file is normal outside local development
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Port:     "8080",
		LogLevel: "info",
		HTTP: HTTPConfig{
			Timeout:        10 * time.Second,
			Retries:        0,
			BackoffInitial: 500 * time.Millisecond,
			BackoffMax:     5 * time.Second,
		},
		Geocoder: GeocoderConfig{
			Provider: GeocoderOpenMeteo,
			URL:      providers.DefaultGeocodingURL,
		},
		ForecastURL:     providers.DefaultForecastURL,
		FetchInterval:   15 * time.Minute,
		StoreMaxHistory: 96, // roughly 24h at 15-minute intervals
		StoreMaxAge:     24 * time.Hour,
	}
}

func hydrateFromFile(cfg *AppConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *AppConfig) error {
	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", cfg.LogLevel))

	cfg.Geocoder.Provider = strings.ToLower(getenvDefault("GEOCODER", cfg.Geocoder.Provider))
	cfg.Geocoder.URL = getenvDefault("GEOCODING_URL", cfg.Geocoder.URL)
	cfg.Geocoder.GoogleAPIKey = getenvDefault("GOOGLE_GEOCODER_API_KEY", cfg.Geocoder.GoogleAPIKey)
	cfg.ForecastURL = getenvDefault("FORECAST_URL", cfg.ForecastURL)

	if v := os.Getenv("WATCHLIST_CITIES"); v != "" {
		cfg.Watchlist = common.SplitList(v)
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"HTTP_TIMEOUT", &cfg.HTTP.Timeout},
		{"HTTP_BACKOFF_INITIAL", &cfg.HTTP.BackoffInitial},
		{"HTTP_BACKOFF_MAX", &cfg.HTTP.BackoffMax},
		{"FETCH_INTERVAL", &cfg.FetchInterval},
		{"STORE_MAX_AGE", &cfg.StoreMaxAge},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	var err error
	if cfg.HTTP.Retries, err = getenvInt("HTTP_RETRIES", cfg.HTTP.Retries); err != nil {
		return err
	}
	if cfg.StoreMaxHistory, err = getenvInt("STORE_MAX_HISTORY", cfg.StoreMaxHistory); err != nil {
		return err
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
