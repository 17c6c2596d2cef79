package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/interview-simulator/internal/handlers"
	"alfredoptarigan/interview-simulator/internal/logger"
	"alfredoptarigan/interview-simulator/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interview HTTP API and the retention janitor",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(cmd)
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("✅ Config loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx, cfg, log, true)
	if err != nil {
		log.Error("❌ Failed to initialize", zap.Error(err))
		return err
	}
	defer rt.Close()

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Error("❌ Failed to create upload directory", zap.Error(err))
		return err
	}
	extractor := services.NewResumeExtractor(storageService, services.NewPDFParserService(), cfg.Storage.MaxFileSize)

	janitor := services.NewJanitor(rt.service, cfg.Janitor.Interval, cfg.Janitor.RetentionDays, log)
	janitor.Start(ctx)

	interviewHandler := handlers.NewInterviewHandler(rt.service, extractor, log.Named("http"))
	historyHandler := handlers.NewHistoryHandler(rt.service, log.Named("http"))
	systemHandler := handlers.NewSystemHandler(rt.service, log.Named("http"))
	log.Info("✅ Handlers initialized")

	app := fiber.New(fiber.Config{
		AppName:      "AI Interview Simulator API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.Register(app.Group("/api/interview"), interviewHandler, historyHandler, systemHandler)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{})))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Interview Simulator API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/interview/start",
				"POST /api/interview/start/upload",
				"POST /api/interview/answer",
				"GET /api/interview/session/:id",
				"GET /api/interview/history",
				"GET /api/interview/:id/report",
				"DELETE /api/interview/session/:id",
				"DELETE /api/interview/system/cleanup",
				"GET /metrics",
			},
		})
	})

	go func() {
		<-ctx.Done()
		log.Info("🛑 Shutting down server...")
		janitor.Stop()
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Error("❌ Failed to start server", zap.Error(err))
		return err
	}
	return nil
}

// customErrorHandler answers errors that escape handlers. Only fiber errors
// keep their message; anything else is reported generically.
func customErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		} else {
			log.Error("❌ Unhandled error", zap.String("path", c.Path()), logger.ErrorKind(err))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
			"code":  code,
		})
	}
}
