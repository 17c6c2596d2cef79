package handlers

import "github.com/gofiber/fiber/v2"

// Register mounts the interview API on router.
func Register(router fiber.Router, interview *InterviewHandler, history *HistoryHandler, system *SystemHandler) {
	router.Get("/health", system.HandleHealth)

	router.Post("/start", interview.HandleStart)
	router.Post("/start/upload", interview.HandleStartUpload)
	router.Post("/answer", interview.HandleAnswer)
	router.Get("/session/:id", interview.HandleStatus)

	router.Get("/history", history.HandleHistory)
	router.Get("/:id/report", history.HandleReport)
	router.Delete("/session/:id", history.HandleDelete)

	router.Delete("/system/cleanup", system.HandleCleanup)
}
