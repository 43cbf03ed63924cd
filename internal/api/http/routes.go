package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-destination-advisor/internal/common"
	"github.com/i474232898/weather-destination-advisor/internal/store"
	"github.com/i474232898/weather-destination-advisor/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. watchlist is the
// default city list for report lookups that do not name one.
func RegisterRoutes(app *fiber.App, service *weather.Service, watchlist []string) {
	v1 := app.Group("/api/v1")

	v1.Post("/destinations/best", func(c *fiber.Ctx) error {
		var req bestDestinationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "request body must be JSON like {\"cities\":[\"Paris\"]}")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := service.BestDestination(c.UserContext(), req.Cities)
		if err != nil {
			return err
		}
		return c.JSON(report)
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		q := cityQuery{City: c.Query("city")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rec, err := service.Recommend(c.UserContext(), q.City)
		if err != nil {
			return err
		}
		return c.JSON(rec)
	})

	v1.Get("/destinations/latest", func(c *fiber.Ctx) error {
		key, err := watchlistKey(c, watchlist)
		if err != nil {
			return err
		}

		report, err := service.GetLatest(key)
		if err != nil {
			return lookupError(err, "no destination report for requested cities")
		}
		return c.JSON(report)
	})

	v1.Get("/destinations/history", func(c *fiber.Ctx) error {
		key, err := watchlistKey(c, watchlist)
		if err != nil {
			return err
		}

		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reports, err := service.GetRange(key, req.From, req.To)
		if err != nil {
			return lookupError(err, "no destination reports for requested range")
		}

		return c.JSON(fiber.Map{
			"watchlist": key,
			"from":      req.From,
			"to":        req.To,
			"reports":   reports,
		})
	})
}

// bestDestinationRequest is the body of POST /destinations/best. An empty
// list is rejected by the service with an empty_input error.
type bestDestinationRequest struct {
	Cities []string `json:"cities" validate:"max=50,dive,required"`
}

type cityQuery struct {
	City string `validate:"required"`
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

func watchlistKey(c *fiber.Ctx, fallback []string) (string, error) {
	cities := common.SplitList(c.Query("cities"))
	if len(cities) == 0 {
		cities = fallback
	}
	key := weather.WatchlistKey(cities)
	if key == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "cities query parameter is required when no watch list is configured")
	}
	return key, nil
}

func lookupError(err error, notFoundMsg string) error {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, weather.ErrNoStore) {
		return fiber.NewError(fiber.StatusNotFound, notFoundMsg)
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to load destination reports")
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
