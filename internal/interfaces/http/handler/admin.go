package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/admin"
)

// StatsService is the admin dashboard use case surface the handler needs
type StatsService interface {
	GetStats(ctx context.Context) (*admin.Stats, error)
}

// AdminHandler serves admin-only endpoints
type AdminHandler struct {
	BaseHandler
	statsService StatsService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(statsService StatsService) *AdminHandler {
	return &AdminHandler{statsService: statsService}
}

// Stats handles GET /admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
