package handlers

import (
	"context"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/interview-simulator/internal/models"
)

// InterviewService is the interview API the handlers expose.
// *interview.Service implements it.
type InterviewService interface {
	Start(ctx context.Context, req *models.StartInterviewRequest) (*models.StartInterviewResponse, error)
	SubmitAnswer(ctx context.Context, req *models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error)
	Status(ctx context.Context, id string) (*models.SessionStatusResponse, error)
	Report(ctx context.Context, id string) (*models.ReportResponse, error)
	History(ctx context.Context, page, pageSize int) (*models.HistoryResponse, error)
	Delete(ctx context.Context, id string) error
	Cleanup(ctx context.Context, olderThanDays int) (*models.CleanupResponse, error)
}

// ResumeExtractor reads the text of an uploaded resume.
type ResumeExtractor interface {
	Extract(file *multipart.FileHeader) (string, error)
}

type InterviewHandler struct {
	service   InterviewService
	extractor ResumeExtractor
	log       *zap.Logger
}

func NewInterviewHandler(service InterviewService, extractor ResumeExtractor, log *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		service:   service,
		extractor: extractor,
		log:       log,
	}
}

// HandleStart handles POST /start
func (h *InterviewHandler) HandleStart(c *fiber.Ctx) error {
	var req models.StartInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.service.Start(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleStartUpload handles POST /start/upload with a PDF resume
func (h *InterviewHandler) HandleStartUpload(c *fiber.Ctx) error {
	if h.extractor == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
			"error": "Resume upload is not enabled",
		})
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return badRequest(c, "resume file is required")
	}

	var req models.StartInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid form fields")
	}

	text, err := h.extractor.Extract(file)
	if err != nil {
		return respondError(c, h.log, err)
	}
	req.ResumeText = text

	resp, err := h.service.Start(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleAnswer handles POST /answer
func (h *InterviewHandler) HandleAnswer(c *fiber.Ctx) error {
	var req models.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.service.SubmitAnswer(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(resp)
}

// HandleStatus handles GET /session/:id
func (h *InterviewHandler) HandleStatus(c *fiber.Ctx) error {
	resp, err := h.service.Status(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(resp)
}
