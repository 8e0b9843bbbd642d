package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/lhhieu89/reviewphims/internal/service"
)

type QuotaHandler struct {
	quota *service.QuotaService
}

func NewQuotaHandler(quota *service.QuotaService) *QuotaHandler {
	return &QuotaHandler{quota: quota}
}

// Usage handles GET /api/quota — the rolling 24-hour consumption estimate.
func (h *QuotaHandler) Usage(c fiber.Ctx) error {
	return c.JSON(h.quota.Usage())
}
