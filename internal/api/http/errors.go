package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-destination-advisor/internal/apperrors"
)

// ErrorHandler is the centralized Fiber error handler. Application errors are
// mapped to status codes by their code; Fiber errors keep their status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := "internal_error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		code = codeForStatus(fe.Code)
	} else if appCode := apperrors.CodeOf(err); appCode != "" {
		code = appCode
		status = statusForCode(appCode)
	}

	return c.Status(status).JSON(fiber.Map{
		"error":   true,
		"code":    code,
		"message": err.Error(),
	})
}

func statusForCode(code string) int {
	switch code {
	case apperrors.CodeInvalidInput, apperrors.CodeEmptyInput:
		return fiber.StatusBadRequest
	case apperrors.CodeNoResults, apperrors.CodeUpstreamError:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return apperrors.CodeInvalidInput
	case fiber.StatusNotFound:
		return "not_found"
	default:
		return "http_error"
	}
}
