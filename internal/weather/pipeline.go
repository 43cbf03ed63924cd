package weather

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Pipeline resolves a city, fetches its current weather and derives activities.
type Pipeline struct {
	geocoder Geocoder
	forecast ForecastFetcher
	logger   *zap.Logger
}

// NewPipeline creates a new Pipeline.
func NewPipeline(geocoder Geocoder, forecast ForecastFetcher, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		geocoder: geocoder,
		forecast: forecast,
		logger:   logger.Named("pipeline"),
	}
}

// FetchCityWeather geocodes the city and reads its current conditions.
// A geocoding miss is not an error: it yields a sentinel record with zero
// readings and the ConditionNotFound label, after a single outbound call.
func (p *Pipeline) FetchCityWeather(ctx context.Context, city string) (CityWeather, error) {
	place, found, err := p.geocoder.Geocode(ctx, city)
	if err != nil {
		return CityWeather{}, fmt.Errorf("%s geocoding %q: %w", p.geocoder.Name(), city, err)
	}
	if !found {
		p.logger.Debug("location not found", zap.String("city", city))
		return CityWeather{City: city, Condition: ConditionNotFound}, nil
	}

	cur, err := p.forecast.Current(ctx, place.Latitude, place.Longitude)
	if err != nil {
		return CityWeather{}, fmt.Errorf("%s forecast for %q: %w", p.forecast.Name(), place.Name, err)
	}

	return CityWeather{
		City:        place.Name,
		Temperature: cur.TemperatureC,
		Condition:   DecodeCondition(cur.WeatherCode),
		Humidity:    cur.HumidityPct,
	}, nil
}

// Run executes the full per-city pipeline.
func (p *Pipeline) Run(ctx context.Context, city string) (ActivityRecommendation, error) {
	w, err := p.FetchCityWeather(ctx, city)
	if err != nil {
		return ActivityRecommendation{}, err
	}
	return RecommendActivities(w), nil
}
