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

type StoreHandler struct {
	storeService service.StoreService
}

func NewStoreHandler(storeService service.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

func (h *StoreHandler) RegisterRoutes(router *gin.RouterGroup) {
	stores := router.Group("/api/stores")
	{
		stores.GET("", middleware.RequireMinRole(model.RoleStoreInCharge), h.GetStores)
		stores.GET("/:id", middleware.RequireMinRole(model.RoleStoreInCharge), h.GetStoreByID)
		stores.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateStore)
		stores.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateStore)
		stores.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteStore)
	}
}

// GetStores handles retrieving paginated stores
// @Summary      Get stores
// @Description  Retrieves a paginated list of stores
// @Tags         stores
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search by store name or code"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/stores [get]
func (h *StoreHandler) GetStores(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	search := c.Query("search")

	stores, total, err := h.storeService.GetStores(c.Request.Context(), page, limit, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve stores: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"stores": stores,
		"total":  total,
		"page":   page,
		"limit":  limit,
	}))
}

// GetStoreByID fetches a single store
// @Summary      Get store by ID
// @Description  Fetch a store's details by ID
// @Tags         stores
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Store ID"
// @Success      200  {object}  response.Response{data=service.StoreResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/stores/{id} [get]
func (h *StoreHandler) GetStoreByID(c *gin.Context) {
	id := c.Param("id")

	store, err := h.storeService.GetStoreByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, store))
}

// CreateStore creates a new store
// @Summary      Create store
// @Description  Creates a new store with a unique code
// @Tags         stores
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateStoreRequest  true  "Create Store Payload"
// @Success      201      {object}  response.Response{data=service.StoreResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/stores [post]
func (h *StoreHandler) CreateStore(c *gin.Context) {
	var req service.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	store, err := h.storeService.CreateStore(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, store))
}

// UpdateStore updates an existing store
// @Summary      Update store
// @Description  Updates a store's details by ID
// @Tags         stores
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Store ID"
// @Param        payload  body      service.UpdateStoreRequest  true  "Update Store Payload"
// @Success      200      {object}  response.Response{data=service.StoreResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/stores/{id} [put]
func (h *StoreHandler) UpdateStore(c *gin.Context) {
	id := c.Param("id")

	var req service.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	store, err := h.storeService.UpdateStore(c.Request.Context(), userID, id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, store))
}

// DeleteStore removes a store softly
// @Summary      Delete store
// @Description  Soft deletes a store by ID
// @Tags         stores
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Store ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/stores/{id} [delete]
func (h *StoreHandler) DeleteStore(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("userID")

	if err := h.storeService.DeleteStore(c.Request.Context(), userID, id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Store deleted successfully"))
}
