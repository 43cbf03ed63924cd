package weather

import (
	"context"
	"time"
)

// Geocoder resolves a free-text city name to a place.
// found is false when the lookup succeeded but matched nothing.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, city string) (place Place, found bool, err error)
}

// ForecastFetcher abstracts a current-conditions source (e.g. Open-Meteo).
type ForecastFetcher interface {
	Name() string
	Current(ctx context.Context, lat, lon float64) (CurrentConditions, error)
}

// Store is the contract the in-memory report store (and any future persistent store) must satisfy.
type Store interface {
	SaveReport(key string, report BestDestinationReport)
	GetLatest(key string) (BestDestinationReport, error)
	GetRange(key string, from, to time.Time) ([]BestDestinationReport, error)
}
