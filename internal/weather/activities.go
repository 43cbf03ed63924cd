package weather

import (
	"fmt"
	"strconv"

	"github.com/i474232898/weather-destination-advisor/internal/common"
)

var (
	hotActivities   = []string{"Beach or pool", "Ice cream"}
	mildActivities  = []string{"Cycling", "Hiking", "Photography"}
	coolActivities  = []string{"Café visit", "Museum tour"}
	coldActivities  = []string{"Winter sports", "Indoor activities"}
	rainyActivities = []string{"Movie theater", "Library", "Bowling"}
	clearExtras     = []string{"Park picnic", "Sunset watching"}
)

// RecommendActivities derives activity suggestions from the current weather.
// Rain replaces the temperature-based set; clear or sunny skies extend it.
func RecommendActivities(w CityWeather) ActivityRecommendation {
	var activities []string
	switch {
	case w.Temperature > 25:
		activities = append(activities, hotActivities...)
	case w.Temperature > 15:
		activities = append(activities, mildActivities...)
	case w.Temperature > 5:
		activities = append(activities, coolActivities...)
	default:
		activities = append(activities, coldActivities...)
	}

	switch {
	case common.HasAnyFold(w.Condition, "rain"):
		activities = append([]string(nil), rainyActivities...)
	case common.HasAnyFold(w.Condition, "clear", "sunny"):
		activities = append(activities, clearExtras...)
	}

	return ActivityRecommendation{
		City:           w.City,
		Activities:     activities,
		WeatherSummary: FormatSummary(w),
		Temperature:    w.Temperature,
		Condition:      w.Condition,
	}
}

// FormatSummary renders "{temp}°C, {condition}, {humidity}% humidity" without rounding.
func FormatSummary(w CityWeather) string {
	return fmt.Sprintf("%s°C, %s, %s%% humidity", formatNumber(w.Temperature), w.Condition, formatNumber(w.Humidity))
}

func formatNumber(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
