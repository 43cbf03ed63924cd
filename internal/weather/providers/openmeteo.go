package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-destination-advisor/internal/weather"
)

const (
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

// OpenMeteoGeocoder implements weather.Geocoder against the Open-Meteo geocoding API.
type OpenMeteoGeocoder struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoGeocoder(client *http.Client, baseURL string, backoff BackoffConfig) *OpenMeteoGeocoder {
	return &OpenMeteoGeocoder{
		name:    "openmeteo-geocoding",
		baseURL: orDefault(baseURL, DefaultGeocodingURL),
		httpCfg: HTTPClientConfig{Client: client, Backoff: backoff},
		circuit: newCircuitBreaker("openmeteo-geocoding"),
	}
}

func (g *OpenMeteoGeocoder) Name() string {
	return g.name
}

// Geocode returns the first match for city, if any.
func (g *OpenMeteoGeocoder) Geocode(ctx context.Context, city string) (weather.Place, bool, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("name", city)
		values.Set("count", "1")
		return newGetRequest(ctx, g.baseURL+"?"+values.Encode())
	}

	resp, err := doRequestWithResilience(ctx, g.httpCfg, g.circuit, buildRequest)
	if err != nil {
		return weather.Place{}, false, err
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Place{}, false, fmt.Errorf("decode geocoding response: %w", err)
	}

	if len(payload.Results) == 0 {
		return weather.Place{}, false, nil
	}

	first := payload.Results[0]
	name := first.Name
	if name == "" {
		name = city
	}
	return weather.Place{Name: name, Latitude: first.Latitude, Longitude: first.Longitude}, true, nil
}

// OpenMeteoForecast implements weather.ForecastFetcher for Open-Meteo current conditions.
type OpenMeteoForecast struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoForecast(client *http.Client, baseURL string, backoff BackoffConfig) *OpenMeteoForecast {
	return &OpenMeteoForecast{
		name:    "openmeteo",
		baseURL: orDefault(baseURL, DefaultForecastURL),
		httpCfg: HTTPClientConfig{Client: client, Backoff: backoff},
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoForecast) Name() string {
	return p.name
}

func (p *OpenMeteoForecast) Current(ctx context.Context, lat, lon float64) (weather.CurrentConditions, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
		values.Set("current", "temperature_2m,relative_humidity_2m,weathercode")
		return newGetRequest(ctx, p.baseURL+"?"+values.Encode())
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.CurrentConditions{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current *struct {
			Temperature float64 `json:"temperature_2m"`
			Humidity    float64 `json:"relative_humidity_2m"`
			WeatherCode *int    `json:"weathercode"`
			// newer responses spell it weather_code
			WeatherCodeAlt *int `json:"weather_code"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentConditions{}, fmt.Errorf("decode forecast response: %w", err)
	}
	if payload.Current == nil {
		return weather.CurrentConditions{}, fmt.Errorf("forecast response has no current block")
	}

	code := -1
	switch {
	case payload.Current.WeatherCode != nil:
		code = *payload.Current.WeatherCode
	case payload.Current.WeatherCodeAlt != nil:
		code = *payload.Current.WeatherCodeAlt
	}

	return weather.CurrentConditions{
		TemperatureC: payload.Current.Temperature,
		HumidityPct:  payload.Current.Humidity,
		WeatherCode:  code,
	}, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return strings.TrimRight(v, "/")
	}
	return def
}
