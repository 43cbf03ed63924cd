package weather

import (
	"strings"
	"time"
)

// ConditionNotFound is the condition label of the sentinel record produced
// when geocoding finds no match for a city.
const ConditionNotFound = "Location not found"

// Place is a geocoded city.
type Place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CurrentConditions is the raw reading returned by a forecast provider.
type CurrentConditions struct {
	TemperatureC float64
	HumidityPct  float64
	WeatherCode  int
}

// CityWeather is the decoded current weather for one city.
type CityWeather struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"` // °C
	Condition   string  `json:"condition"`
	Humidity    float64 `json:"humidity"` // percent
}

// ActivityRecommendation is derived one-to-one from a CityWeather.
// Temperature and Condition are carried alongside the formatted summary so the
// scorer never has to parse numbers back out of text.
type ActivityRecommendation struct {
	City           string   `json:"city"`
	Activities     []string `json:"activities"`
	WeatherSummary string   `json:"weatherSummary"`
	Temperature    float64  `json:"temperature"`
	Condition      string   `json:"condition"`
}

// ScoredCity is one entry of the ranked destination list.
type ScoredCity struct {
	City           string `json:"city"`
	Score          int    `json:"score"`
	WeatherSummary string `json:"weatherSummary"`
	TopActivity    string `json:"topActivity"`
}

// CityFailure reports a city whose pipeline faulted.
type CityFailure struct {
	City  string `json:"city"`
	Error string `json:"error"`
}

// BestDestinationReport is the final output of a destination evaluation.
type BestDestinationReport struct {
	ID           string        `json:"id"`
	GeneratedAt  time.Time     `json:"generatedAt"` // always UTC
	BestCity     string        `json:"bestCity"`
	Reason       string        `json:"reason"`
	AllCities    []ScoredCity  `json:"allCities"`
	FailedCities []CityFailure `json:"failedCities,omitempty"`
}

// CityResult is the outcome of one per-city pipeline inside a fan-out.
// Index is the position of City in the input list.
type CityResult struct {
	Index          int
	City           string
	Recommendation ActivityRecommendation
	Err            error
}

// WatchlistKey returns a canonical key for a list of cities, used to index
// reports in stores.
func WatchlistKey(cities []string) string {
	parts := make([]string, 0, len(cities))
	for _, c := range cities {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, ",")
}
