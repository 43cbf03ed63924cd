package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-destination-advisor/internal/weather"
)

// Evaluator is the part of weather.Service the scheduler needs. The report is
// stored by the evaluator itself.
type Evaluator interface {
	BestDestination(ctx context.Context, cities []string) (weather.BestDestinationReport, error)
}

// Scheduler periodically evaluates the configured watch list.
type Scheduler struct {
	scheduler *gocron.Scheduler
	evaluator Evaluator
	cities    []string
	interval  time.Duration
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler.
func New(cities []string, interval time.Duration, evaluator Evaluator, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		evaluator: evaluator,
		cities:    cities,
		interval:  interval,
		timeout:   30 * time.Second,
		logger:    logger.Named("scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		s.logger.Info("no watch list configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) run() {
	s.logger.Debug("running watch list evaluation", zap.Strings("cities", s.cities))

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report, err := s.evaluator.BestDestination(ctx, s.cities)
	if err != nil {
		s.logger.Error("watch list evaluation failed", zap.Error(err))
		return
	}
	s.logger.Info("watch list evaluated",
		zap.String("bestCity", report.BestCity),
		zap.String("reportId", report.ID),
	)
}
