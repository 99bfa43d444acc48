package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"jobify/cv-scorer/internal/locale"
	"jobify/cv-scorer/internal/models"
	"jobify/cv-scorer/internal/services"
)

// statusFor maps a pipeline error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrJobNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrQueueFull), errors.Is(err, services.ErrWorkerStopped):
		return fiber.StatusServiceUnavailable
	}

	switch services.ReasonOf(err) {
	case services.ReasonUnsupportedFormat:
		return fiber.StatusBadRequest
	case services.ReasonExtractionFailed, services.ReasonCorruptOrUnsupported:
		return fiber.StatusUnprocessableEntity
	case services.ReasonTimeout:
		return fiber.StatusGatewayTimeout
	case services.ReasonCancelled:
		return fiber.StatusRequestTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// reasonFor names the error class for API clients.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, services.ErrJobNotFound):
		return "JobNotFound"
	case errors.Is(err, services.ErrQueueFull), errors.Is(err, services.ErrWorkerStopped):
		return "QueueFull"
	}
	return string(services.ReasonOf(err))
}

func errorResponse(err error, loc locale.Locale) (int, models.ErrorResponse) {
	code := statusFor(err)
	return code, models.ErrorResponse{
		Success: false,
		Error:   services.UserMessage(err, loc),
		Reason:  reasonFor(err),
		Code:    code,
	}
}

func sendError(c *fiber.Ctx, code int, loc locale.Locale, key locale.Key) error {
	return c.Status(code).JSON(models.ErrorResponse{
		Success: false,
		Error:   locale.Message(loc, key),
		Code:    code,
	})
}

// ErrorHandler renders errors that escape a handler in the API's error shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	message := err.Error()
	if code == fiber.StatusRequestEntityTooLarge {
		message = locale.Message(locale.English, locale.MsgFileTooLarge)
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	})
}
