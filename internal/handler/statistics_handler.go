package handler

import (
	"net/http"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/middleware"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/model"
	"github.com/umarabbas75/fly-inn-app-sub004/internal/service"
	"github.com/umarabbas75/fly-inn-app-sub004/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	stats := router.Group("/api/admin/statistics")
	stats.Use(middleware.RequireRole(model.RoleAdmin))
	{
		stats.GET("/cancellations", h.CancellationStats)
	}
}

// CancellationStats summarizes cancelled bookings by refund category
// @Summary      Cancellation statistics
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.CancellationStatsResponse}
// @Router       /api/admin/statistics/cancellations [get]
func (h *StatisticsHandler) CancellationStats(c *gin.Context) {
	stats, err := h.statisticsService.CancellationStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
