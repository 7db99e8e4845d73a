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

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/api/inventories")
	{
		inventory.GET("", middleware.RequireMinRole(model.RoleStoreInCharge), h.GetItems)
		inventory.GET("/:id", middleware.RequireMinRole(model.RoleStoreInCharge), h.GetItemByID)
		inventory.POST("", middleware.RequireRole(model.RoleStoreInCharge, model.RoleAdmin), h.CreateItem)
		inventory.PUT("/:id", middleware.RequireRole(model.RoleStoreInCharge, model.RoleAdmin), h.UpdateItem)
		inventory.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteItem)
	}
}

// GetItems handles retrieving paginated inventory items
// @Summary      Get inventory items
// @Description  Retrieves a paginated list of inventory items, optionally scoped to a store
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Number of items per page (default 20)"
// @Param        search    query     string  false  "Search by item name"
// @Param        store_id  query     string  false  "Filter by store"
// @Success      200       {object}  response.Response{data=object}
// @Failure      500       {object}  response.Response
// @Router       /api/inventories [get]
func (h *InventoryHandler) GetItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	search := c.Query("search")
	storeID := c.Query("store_id")

	items, total, err := h.inventoryService.GetItems(c.Request.Context(), storeID, page, limit, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve inventory: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	}))
}

// GetItemByID fetches a single inventory item
// @Summary      Get inventory item
// @Description  Fetch an inventory item's details by ID
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Inventory ID"
// @Success      200  {object}  response.Response{data=service.InventoryResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/inventories/{id} [get]
func (h *InventoryHandler) GetItemByID(c *gin.Context) {
	id := c.Param("id")

	item, err := h.inventoryService.GetItemByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// CreateItem creates a new inventory item for a store
// @Summary      Create inventory item
// @Description  Creates a new inventory item and links it to its store
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateInventoryRequest  true  "Create Inventory Payload"
// @Success      201      {object}  response.Response{data=service.InventoryResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/inventories [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req service.CreateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	item, err := h.inventoryService.CreateItem(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateItem updates an existing inventory item
// @Summary      Update inventory item
// @Description  Updates an inventory item's details by ID
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Inventory ID"
// @Param        payload  body      service.UpdateInventoryRequest  true  "Update Inventory Payload"
// @Success      200      {object}  response.Response{data=service.InventoryResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/inventories/{id} [put]
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id := c.Param("id")

	var req service.UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	item, err := h.inventoryService.UpdateItem(c.Request.Context(), userID, id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem removes an inventory item softly
// @Summary      Delete inventory item
// @Description  Soft deletes an inventory item by ID
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Inventory ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/inventories/{id} [delete]
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("userID")

	if err := h.inventoryService.DeleteItem(c.Request.Context(), userID, id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Inventory item deleted successfully"))
}
