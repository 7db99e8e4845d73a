package handler

import (
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type UnitHandler struct {
	unitService service.UnitService
}

func NewUnitHandler(unitService service.UnitService) *UnitHandler {
	return &UnitHandler{unitService: unitService}
}

func (h *UnitHandler) RegisterRoutes(router *gin.RouterGroup) {
	units := router.Group("/api/units")
	{
		units.GET("", middleware.RequireMinRole(model.RoleStoreInCharge), h.GetUnits)
		units.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateUnit)
		units.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateUnit)
		units.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteUnit)
	}
}

// GetUnits handles retrieving paginated measurement units
// @Summary      Get units
// @Description  Retrieves a paginated list of measurement units
// @Tags         units
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search by unit name"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/units [get]
func (h *UnitHandler) GetUnits(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	search := c.Query("search")

	units, total, err := h.unitService.GetUnits(c.Request.Context(), page, limit, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve units: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"units": units,
		"total": total,
		"page":  page,
		"limit": limit,
	}))
}

// CreateUnit creates a new measurement unit
// @Summary      Create unit
// @Description  Creates a new measurement unit
// @Tags         units
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateUnitRequest  true  "Create Unit Payload"
// @Success      201      {object}  response.Response{data=service.UnitResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/units [post]
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	var req service.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	unit, err := h.unitService.CreateUnit(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, unit))
}

// UpdateUnit updates an existing unit
// @Summary      Update unit
// @Description  Updates a measurement unit's details by ID
// @Tags         units
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Unit ID"
// @Param        payload  body      service.UpdateUnitRequest  true  "Update Unit Payload"
// @Success      200      {object}  response.Response{data=service.UnitResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/units/{id} [put]
func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	id := c.Param("id")

	var req service.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	unit, err := h.unitService.UpdateUnit(c.Request.Context(), userID, id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, unit))
}

// DeleteUnit removes a unit softly
// @Summary      Delete unit
// @Description  Soft deletes a measurement unit by ID
// @Tags         units
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Unit ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/units/{id} [delete]
func (h *UnitHandler) DeleteUnit(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("userID")

	if err := h.unitService.DeleteUnit(c.Request.Context(), userID, id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Unit deleted successfully"))
}
