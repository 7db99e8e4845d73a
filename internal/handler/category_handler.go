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

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/api/categories")
	{
		categories.GET("", middleware.RequireMinRole(model.RoleStoreInCharge), h.GetCategories)
		categories.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateCategory)
		categories.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateCategory)
		categories.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteCategory)
	}
}

// GetCategories handles retrieving paginated categories
// @Summary      Get categories
// @Description  Retrieves a paginated list of item categories
// @Tags         categories
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search by category name"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	search := c.Query("search")

	categories, total, err := h.categoryService.GetCategories(c.Request.Context(), page, limit, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve categories: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"categories": categories,
		"total":      total,
		"page":       page,
		"limit":      limit,
	}))
}

// CreateCategory creates a new category
// @Summary      Create category
// @Description  Creates a new item category
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateCategoryRequest  true  "Create Category Payload"
// @Success      201      {object}  response.Response{data=service.CategoryResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req service.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	category, err := h.categoryService.CreateCategory(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, category))
}

// UpdateCategory updates an existing category
// @Summary      Update category
// @Description  Updates a category's details by ID
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Category ID"
// @Param        payload  body      service.UpdateCategoryRequest  true  "Update Category Payload"
// @Success      200      {object}  response.Response{data=service.CategoryResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id := c.Param("id")

	var req service.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), userID, id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, category))
}

// DeleteCategory removes a category softly
// @Summary      Delete category
// @Description  Soft deletes a category by ID
// @Tags         categories
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("userID")

	if err := h.categoryService.DeleteCategory(c.Request.Context(), userID, id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Category deleted successfully"))
}
