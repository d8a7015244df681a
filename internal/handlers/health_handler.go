package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"resume-matcher/internal/repositories"
)

const readyTimeout = 2 * time.Second

type HealthHandler struct {
	auditRepo repositories.AuditRepository
	logger    *zap.Logger
}

func NewHealthHandler(auditRepo repositories.AuditRepository, logger *zap.Logger) *HealthHandler {
	if auditRepo == nil {
		auditRepo = repositories.NewNoopAuditRepository()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HealthHandler{auditRepo: auditRepo, logger: logger}
}

// HandleRoot answers load balancer probes with a plain "OK".
func (h *HealthHandler) HandleRoot(c *fiber.Ctx) error {
	return c.SendString("OK")
}

func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *HealthHandler) HandleReady(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
	defer cancel()

	if err := h.auditRepo.Ping(ctx); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"error":  "database not reachable",
		})
	}

	return c.JSON(fiber.Map{"status": "ready"})
}
