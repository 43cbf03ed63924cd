package weather

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/weather-destination-advisor/internal/apperrors"
)

// MaxInFlight is the number of per-city pipelines allowed to run at once.
const MaxInFlight = 3

// ErrNoStore is returned by report lookups when the service has no store.
var ErrNoStore = errors.New("report store not configured")

// Service orchestrates per-city pipelines, scoring and report storage.
type Service struct {
	pipeline *Pipeline
	store    Store
	logger   *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a new Service. store may be nil, in which case reports
// are not retained.
func NewService(pipeline *Pipeline, store Store, logger *zap.Logger) *Service {
	return &Service{
		pipeline: pipeline,
		store:    store,
		logger:   logger.Named("service"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Recommend runs the pipeline for a single city.
func (s *Service) Recommend(ctx context.Context, city string) (ActivityRecommendation, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return ActivityRecommendation{}, apperrors.Wrap(apperrors.CodeInvalidInput, "city must not be blank", nil)
	}

	rec, err := s.pipeline.Run(ctx, city)
	if err != nil {
		return ActivityRecommendation{}, apperrors.Wrap(apperrors.CodeUpstreamError, "failed to fetch weather", err)
	}
	return rec, nil
}

// RecommendAll runs the pipeline for every city with at most MaxInFlight
// running concurrently. Result i always belongs to cities[i]. A failing city
// does not affect the others; its error is carried in CityResult.Err.
func (s *Service) RecommendAll(ctx context.Context, cities []string) []CityResult {
	results := make([]CityResult, len(cities))

	var g errgroup.Group
	g.SetLimit(MaxInFlight)

	for i, city := range cities {
		i, city := i, city
		g.Go(func() error {
			res := CityResult{Index: i, City: city}
			if err := ctx.Err(); err != nil {
				res.Err = err
			} else {
				res.Recommendation, res.Err = s.pipeline.Run(ctx, city)
			}
			if res.Err != nil {
				s.logger.Warn("city pipeline failed", zap.String("city", city), zap.Error(res.Err))
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// BestDestination evaluates all cities, ranks them and returns the report.
// The report is saved to the store under the watch-list key of cities.
func (s *Service) BestDestination(ctx context.Context, cities []string) (BestDestinationReport, error) {
	names, err := normalizeCities(cities)
	if err != nil {
		return BestDestinationReport{}, err
	}

	s.logger.Debug("evaluating destinations", zap.Strings("cities", names))

	results := s.RecommendAll(ctx, names)

	recs := make([]ActivityRecommendation, 0, len(results))
	var failures []CityFailure
	var firstErr error
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, CityFailure{City: r.City, Error: r.Err.Error()})
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		recs = append(recs, r.Recommendation)
	}

	if len(recs) == 0 {
		return BestDestinationReport{}, apperrors.Wrap(apperrors.CodeNoResults, "weather lookup failed for every city", firstErr)
	}

	report, err := ScoreDestinations(recs)
	if err != nil {
		return BestDestinationReport{}, apperrors.Wrap(apperrors.CodeEmptyInput, "nothing to score", err)
	}
	report.ID = s.newID()
	report.GeneratedAt = s.now().UTC()
	report.FailedCities = failures

	if s.store != nil {
		s.store.SaveReport(WatchlistKey(names), report)
	}

	s.logger.Info("best destination computed",
		zap.String("bestCity", report.BestCity),
		zap.Int("cities", len(names)),
		zap.Int("failed", len(failures)),
	)
	return report, nil
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(key string) (BestDestinationReport, error) {
	if s.store == nil {
		return BestDestinationReport{}, ErrNoStore
	}
	return s.store.GetLatest(key)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(key string, from, to time.Time) ([]BestDestinationReport, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.GetRange(key, from, to)
}

func normalizeCities(cities []string) ([]string, error) {
	if len(cities) == 0 {
		return nil, apperrors.Wrap(apperrors.CodeEmptyInput, "at least one city is required", ErrEmptyInput)
	}
	names := make([]string, 0, len(cities))
	for _, c := range cities {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "city names must not be blank", nil)
		}
		names = append(names, c)
	}
	return names, nil
}
