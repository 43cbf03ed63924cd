package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubGoogle(lookup func(geocoder.Address) (geocoder.Location, error)) *GoogleGeocoder {
	return &GoogleGeocoder{
		name:    "google-geocoding",
		circuit: newCircuitBreaker("google-geocoding-test"),
		lookup:  lookup,
	}
}

func TestGoogleGeocoderRequiresKey(t *testing.T) {
	_, err := NewGoogleGeocoder(" ")
	require.Error(t, err)
}

func TestGoogleGeocoderFound(t *testing.T) {
	g := newStubGoogle(func(a geocoder.Address) (geocoder.Location, error) {
		assert.Equal(t, "Lisbon", a.City)
		return geocoder.Location{Latitude: 38.72, Longitude: -9.14}, nil
	})

	place, found, err := g.Geocode(context.Background(), "Lisbon")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Lisbon", place.Name)
	require.Equal(t, 38.72, place.Latitude)
	require.Equal(t, -9.14, place.Longitude)
}

func TestGoogleGeocoderMiss(t *testing.T) {
	g := newStubGoogle(func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{}, errors.New("No results found.")
	})

	_, found, err := g.Geocode(context.Background(), "Atlantis")
	require.NoError(t, err)
	require.False(t, found)
}

func TestGoogleGeocoderFailure(t *testing.T) {
	boom := errors.New("REQUEST_DENIED")
	g := newStubGoogle(func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{}, boom
	})

	_, _, err := g.Geocode(context.Background(), "Lisbon")
	require.ErrorIs(t, err, boom)
}

func TestGoogleGeocoderUnhandledStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OVER_DAILY_LIMIT","results":[]}`))
	}))
	defer srv.Close()

	prevURL := geocoder.ApiUrl
	geocoder.ApiUrl = srv.URL + "/?"
	t.Cleanup(func() { geocoder.ApiUrl = prevURL })

	g, err := NewGoogleGeocoder("test-key")
	require.NoError(t, err)

	var found bool
	require.NotPanics(t, func() {
		_, found, err = g.Geocode(context.Background(), "Lisbon")
	})
	require.Error(t, err)
	require.False(t, found)
}

func TestGoogleGeocoderRecoversPanic(t *testing.T) {
	g := newStubGoogle(func(geocoder.Address) (geocoder.Location, error) {
		var results []geocoder.Location
		return results[0], nil
	})

	_, _, err := g.Geocode(context.Background(), "Lisbon")
	require.ErrorContains(t, err, "google geocoding")
}

func TestGoogleGeocoderHonoursDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	g := newStubGoogle(func(geocoder.Address) (geocoder.Location, error) {
		<-release
		return geocoder.Location{Latitude: 1, Longitude: 1}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, found, err := g.Geocode(ctx, "Lisbon")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, found)
	require.Less(t, time.Since(start), time.Second)
}
