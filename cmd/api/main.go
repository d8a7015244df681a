package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"resume-matcher/internal/app"
	"resume-matcher/internal/config"
	"resume-matcher/internal/handlers"
	"resume-matcher/internal/logger"
	"resume-matcher/internal/models"
	"resume-matcher/internal/repositories"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	zl.Info("config loaded",
		zap.String("env", cfg.Server.Env),
		zap.String(logger.FieldModel, cfg.LLM.Model),
		zap.String("fallback_model", cfg.LLM.FallbackModel),
	)

	// Audit log is optional
	auditRepo := repositories.NewNoopAuditRepository()
	if cfg.Audit.Enabled {
		db, err := config.InitDatabase(cfg, zl)
		if err != nil {
			zl.Fatal("failed to initialize audit database", zap.Error(err))
		}
		auditRepo = repositories.NewAuditRepository(db)
	}

	ctx := context.Background()

	matchService, err := app.NewMatchService(ctx, cfg, auditRepo, zl)
	if err != nil {
		zl.Fatal("failed to initialize match service", zap.Error(err))
	}
	zl.Info("match service initialized")

	// Initialize handlers
	matchHandler := handlers.NewMatchHandler(matchService, cfg.Upload.MaxFileSize, zl)
	healthHandler := handlers.NewHealthHandler(auditRepo, zl)

	// Create Fiber app
	server := fiber.New(fiber.Config{
		AppName:      "Resume Matcher API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLM.FetchTimeout + 2*cfg.LLM.CompletionTimeout + 10*time.Second,
		BodyLimit:    int(cfg.Upload.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	server.Use(recover.New())
	server.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	server.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
	}))

	// Routes
	handlers.RegisterRoutes(server, matchHandler, healthHandler, handlers.RateLimit{
		Max:    cfg.RateLimit.Max,
		Window: cfg.RateLimit.Window,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zl.Info("shutting down server")
		if err := server.ShutdownWithTimeout(30 * time.Second); err != nil {
			zl.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zl.Info("server starting", zap.String("addr", addr))

	if err := server.Listen(addr); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{Error: err.Error()})
}
