package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"pathfinder/career-advisor/internal/models"
	"pathfinder/career-advisor/internal/services"
)

// respondError writes err as an ErrorResponse. Backend failures get a generic
// message; their reason is only logged.
func respondError(c *fiber.Ctx, err error) error {
	var (
		validationErr  *services.ValidationError
		unsupportedErr *services.UnsupportedMediaTypeError
		backendErr     *services.BackendError
	)

	kind := services.ErrorKind(err)
	status := fiber.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.As(err, &validationErr), errors.As(err, &unsupportedErr):
		status = fiber.StatusBadRequest
	case errors.As(err, &backendErr):
		message = "The AI service is unavailable. Please try again later."
	case errors.Is(err, services.ErrEmptyCompletion):
		message = "The AI service returned an empty response. Please try again."
	case kind == "schema_parse_error", kind == "schema_validation_error":
		message = "The AI service returned an invalid response. Please try again."
	case kind == "internal_error":
		message = "Internal server error"
	}

	if status >= fiber.StatusInternalServerError {
		log.Printf("❌ %s %s failed (%s): %v", c.Method(), c.Path(), kind, err)
	}

	return c.Status(status).JSON(models.ErrorResponse{
		Error: message,
		Code:  status,
		Type:  kind,
	})
}

func invalidPayload(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: "Invalid request payload",
		Code:  fiber.StatusBadRequest,
		Type:  "validation_error",
	})
}

// ErrorHandler renders framework errors (unknown routes, body limit, recovered
// panics) with the same body shape as handler errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error: err.Error(),
		Code:  code,
	})
}
