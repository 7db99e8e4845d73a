package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/api/statistics")
	{
		statsGroup.GET("", middleware.RequireMinRole(model.RoleJE), h.GetStatistics)
	}
}

// GetStatistics returns aggregated workflow and stock metrics
// @Summary      Get Dashboard Statistics
// @Description  Get requisition counts by status, pending counts per approval step and per-store stock valuation
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.StatisticsResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/statistics [get]
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	stats, err := h.statisticsService.GetStatistics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute statistics: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
