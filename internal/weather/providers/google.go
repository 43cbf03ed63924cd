package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-destination-advisor/internal/weather"
)

// GoogleGeocoder implements weather.Geocoder with the Google Geocoding API.
// The library keeps its API key in a package variable, so only one key can be
// active per process.
type GoogleGeocoder struct {
	name    string
	circuit *gobreaker.CircuitBreaker
	lookup  func(geocoder.Address) (geocoder.Location, error)
}

func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google geocoder api key is not configured")
	}
	geocoder.ApiKey = apiKey

	return &GoogleGeocoder{
		name:    "google-geocoding",
		circuit: newCircuitBreaker("google-geocoding"),
		lookup:  geocoder.Geocoding,
	}, nil
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

// Geocode resolves city to coordinates. Google does not hand back a
// canonical name on forward lookups, so the input name is kept.
//
// The library uses its own HTTP client without a timeout, so the lookup runs
// in a goroutine and ctx bounds how long the caller waits for it.
func (g *GoogleGeocoder) Geocode(ctx context.Context, city string) (weather.Place, bool, error) {
	if err := ctx.Err(); err != nil {
		return weather.Place{}, false, err
	}

	var miss bool
	result, err := g.circuit.Execute(func() (interface{}, error) {
		loc, err := g.lookupContext(ctx, city)
		if err != nil && isZeroResults(err) {
			// a miss is a successful call as far as the breaker is concerned
			miss = true
			return nil, nil
		}
		return loc, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return weather.Place{}, false, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return weather.Place{}, false, err
	}
	if miss {
		return weather.Place{}, false, nil
	}

	loc, ok := result.(geocoder.Location)
	if !ok {
		return weather.Place{}, false, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return weather.Place{Name: city, Latitude: loc.Latitude, Longitude: loc.Longitude}, true, nil
}

type lookupResult struct {
	loc geocoder.Location
	err error
}

func (g *GoogleGeocoder) lookupContext(ctx context.Context, city string) (geocoder.Location, error) {
	done := make(chan lookupResult, 1)
	go func() {
		loc, err := g.safeLookup(city)
		done <- lookupResult{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return geocoder.Location{}, ctx.Err()
	case res := <-done:
		return res.loc, res.err
	}
}

// safeLookup turns a panic inside the library into an error. It indexes the
// first result without checking for statuses it does not know, such as
// OVER_DAILY_LIMIT.
func (g *GoogleGeocoder) safeLookup(city string) (loc geocoder.Location, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("google geocoding %q: %v", city, r)
		}
	}()
	return g.lookup(geocoder.Address{City: city})
}

func isZeroResults(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "zero_results") || strings.Contains(msg, "no results")
}
