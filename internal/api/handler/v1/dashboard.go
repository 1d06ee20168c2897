package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/response"
	"github.com/eventhub-app/eventhub-api/internal/domain"
)

type StatsService interface {
	Dashboard(ctx context.Context) (domain.DashboardStats, error)
}

type DashboardHandler struct {
	svc StatsService
}

func NewDashboardHandler(svc StatsService) *DashboardHandler {
	return &DashboardHandler{
		svc: svc,
	}
}

// HandleDashboard godoc
// @Summary      Admin dashboard aggregates
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   domain.DashboardStats
// @Failure      500      {object}   response.Err
// @Router       /dashboard [get]
func (h *DashboardHandler) HandleDashboard(ctx *gin.Context) {
	stats, err := h.svc.Dashboard(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleDashboard -> h.svc.Dashboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, stats)
}
