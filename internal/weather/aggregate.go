package weather

import (
	"errors"
	"fmt"
	"sort"

	"github.com/i474232898/weather-destination-advisor/internal/common"
)

const (
	baseScore           = 50
	fallbackTopActivity = "Explore the city"
)

// ErrEmptyInput is returned when there is nothing to score.
var ErrEmptyInput = errors.New("no cities to score")

// ScoreDestinations ranks recommendations by weather favorability and picks
// the best city. Entries with equal scores keep their input order.
func ScoreDestinations(recs []ActivityRecommendation) (BestDestinationReport, error) {
	if len(recs) == 0 {
		return BestDestinationReport{}, ErrEmptyInput
	}

	scored := make([]ScoredCity, 0, len(recs))
	for _, rec := range recs {
		scored = append(scored, ScoreCity(rec))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	best := scored[0]
	return BestDestinationReport{
		BestCity: best.City,
		Reason: fmt.Sprintf("%s has the best weather conditions with %s. Top recommended activity: %s",
			best.City, best.WeatherSummary, best.TopActivity),
		AllCities: scored,
	}, nil
}

// ScoreCity computes the heuristic score of a single recommendation.
func ScoreCity(rec ActivityRecommendation) ScoredCity {
	score := baseScore + temperatureAdjustment(rec.Temperature) + conditionAdjustment(rec.WeatherSummary)

	top := fallbackTopActivity
	if len(rec.Activities) > 0 {
		top = rec.Activities[0]
	}

	return ScoredCity{
		City:           rec.City,
		Score:          score,
		WeatherSummary: rec.WeatherSummary,
		TopActivity:    top,
	}
}

func temperatureAdjustment(t float64) int {
	switch {
	case t >= 18 && t <= 25:
		return 30
	case t >= 15 && t <= 28:
		return 20
	case t < 5 || t > 35:
		return -20
	default:
		return 0
	}
}

// conditionAdjustment checks keywords in priority order; first match wins.
func conditionAdjustment(summary string) int {
	switch {
	case common.HasAnyFold(summary, "clear"):
		return 20
	case common.HasAnyFold(summary, "rain"):
		return -15
	case common.HasAnyFold(summary, "cloud"):
		return 5
	default:
		return 0
	}
}
