package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/interview-simulator/internal/interview"
	"alfredoptarigan/interview-simulator/internal/logger"
	"alfredoptarigan/interview-simulator/internal/services"
)

// respondError maps service errors to status codes. Unexpected errors are
// logged by kind and answered with a generic message.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	case errors.Is(err, interview.ErrStateConflict):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Interview is already completed or has failed",
		})
	case errors.Is(err, interview.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	case errors.Is(err, services.ErrInvalidUpload):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resume file. Upload a readable PDF within the size limit.",
		})
	}

	log.Error("❌ Request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		logger.ErrorKind(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}

// validationMessage lists failed fields without echoing their values.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request"
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			fields = append(fields, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			fields = append(fields, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return "Invalid request: " + strings.Join(fields, "; ")
}
