package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/weather-destination-advisor/internal/api/http"
	"github.com/i474232898/weather-destination-advisor/internal/config"
	"github.com/i474232898/weather-destination-advisor/internal/logger"
	"github.com/i474232898/weather-destination-advisor/internal/scheduler"
	"github.com/i474232898/weather-destination-advisor/internal/store"
	"github.com/i474232898/weather-destination-advisor/internal/weather"
	"github.com/i474232898/weather-destination-advisor/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// Shared HTTP client for outbound geocoding and forecast calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTP.Timeout,
	}

	geo, err := newGeocoder(cfg, httpClient)
	if err != nil {
		zl.Fatal("failed to build geocoder", zap.Error(err))
	}
	forecast := providers.NewOpenMeteoForecast(httpClient, cfg.ForecastURL, cfg.HTTP.Backoff())

	// In-memory report store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	pipeline := weather.NewPipeline(geo, forecast, zl)
	service := weather.NewService(pipeline, memStore, zl)

	// Scheduler that periodically evaluates the watch list.
	sched := scheduler.New(cfg.Watchlist, cfg.FetchInterval, service, zl)
	if err := sched.Start(); err != nil {
		zl.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-destination-advisor",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-destination-advisor",
		})
	})

	httpapi.RegisterRoutes(app, service, cfg.Watchlist)

	go func() {
		zl.Info("listening", zap.String("port", cfg.Port), zap.String("geocoder", geo.Name()))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zl.Error("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zl.Error("error during shutdown", zap.Error(err))
	}
}

func newGeocoder(cfg *config.AppConfig, client *http.Client) (weather.Geocoder, error) {
	if cfg.Geocoder.Provider == config.GeocoderGoogle {
		return providers.NewGoogleGeocoder(cfg.Geocoder.GoogleAPIKey)
	}
	return providers.NewOpenMeteoGeocoder(client, cfg.Geocoder.URL, cfg.HTTP.Backoff()), nil
}
