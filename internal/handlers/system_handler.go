package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultRetentionDays = 30

type SystemHandler struct {
	service InterviewService
	log     *zap.Logger
}

func NewSystemHandler(service InterviewService, log *zap.Logger) *SystemHandler {
	return &SystemHandler{
		service: service,
		log:     log,
	}
}

// HandleCleanup handles DELETE /system/cleanup?older_than_days=
func (h *SystemHandler) HandleCleanup(c *fiber.Ctx) error {
	days := c.QueryInt("older_than_days", defaultRetentionDays)
	if days < 1 {
		return badRequest(c, "older_than_days must be at least 1")
	}

	resp, err := h.service.Cleanup(c.UserContext(), days)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(resp)
}

// HandleHealth handles GET /health
func (h *SystemHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now(),
	})
}
