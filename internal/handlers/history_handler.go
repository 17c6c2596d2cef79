package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/interview-simulator/internal/interview"
)

type HistoryHandler struct {
	service InterviewService
	log     *zap.Logger
}

func NewHistoryHandler(service InterviewService, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		log:     log,
	}
}

// HandleHistory handles GET /history?page=&page_size=
func (h *HistoryHandler) HandleHistory(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", interview.DefaultPageSize)
	if page < 1 {
		return badRequest(c, "page must be at least 1")
	}
	if pageSize < 1 || pageSize > interview.MaxPageSize {
		return badRequest(c, "page_size must be between 1 and 50")
	}

	resp, err := h.service.History(c.UserContext(), page, pageSize)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(resp)
}

// HandleReport handles GET /:id/report
func (h *HistoryHandler) HandleReport(c *fiber.Ctx) error {
	resp, err := h.service.Report(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(resp)
}

// HandleDelete handles DELETE /session/:id
func (h *HistoryHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"message":    "Session deleted",
		"session_id": id,
	})
}
