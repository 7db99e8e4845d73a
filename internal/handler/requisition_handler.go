package handler

import (
	"errors"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/internal/workflow"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequisitionHandler struct {
	requisitionService service.RequisitionService
}

func NewRequisitionHandler(requisitionService service.RequisitionService) *RequisitionHandler {
	return &RequisitionHandler{requisitionService: requisitionService}
}

func (h *RequisitionHandler) RegisterRoutes(router *gin.RouterGroup) {
	requisitions := router.Group("/api/requisitions")
	{
		requisitions.POST("", middleware.RequireRole(model.RoleStoreInCharge, model.RoleJE, model.RoleAdmin), h.Submit)
		requisitions.GET("", middleware.RequireMinRole(model.RoleStoreInCharge), h.List)
		requisitions.GET("/:id", middleware.RequireMinRole(model.RoleStoreInCharge), h.GetByID)
		requisitions.GET("/:id/status", middleware.RequireMinRole(model.RoleStoreInCharge), h.GetStatus)
		requisitions.PUT("/:id/decision", middleware.RequireRole(model.RoleJE, model.RoleAEE, model.RoleEEE, model.RoleESE, model.RoleCE), h.Decide)
		requisitions.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)
	}
}

// statusFromError maps service and workflow sentinel errors onto HTTP codes
func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrRequisitionNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrNotCurrentApprover):
		return http.StatusForbidden
	case errors.Is(err, workflow.ErrRequisitionClosed):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrValidation), errors.Is(err, workflow.ErrInvalidDecision):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Submit creates a new requisition and opens its approval chain
// @Summary      Submit requisition
// @Description  Creates a requisition in Pending state awaiting JE approval
// @Tags         requisitions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitRequisitionRequest  true  "Submit Requisition Payload"
// @Success      201      {object}  response.Response{data=service.RequisitionResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/requisitions [post]
func (h *RequisitionHandler) Submit(c *gin.Context) {
	var req service.SubmitRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	requisition, err := h.requisitionService.Submit(c.Request.Context(), userID, req)
	if err != nil {
		status := statusFromError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, requisition))
}

// List retrieves paginated requisitions with optional status filter
// @Summary      List requisitions
// @Description  Retrieves a paginated list of requisitions, optionally filtered by status
// @Tags         requisitions
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        status  query     string  false  "Filter by status (Pending, Approved, Rejected)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/requisitions [get]
func (h *RequisitionHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	status := c.Query("status")

	filter := service.RequisitionFilter{Status: status, Page: params.Page, Limit: params.Limit}
	requisitions, total, err := h.requisitionService.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve requisitions: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"requisitions": requisitions,
		"total":        total,
		"page":         params.Page,
		"limit":        params.Limit,
	}))
}

// GetByID fetches a single requisition with its full approval trail
// @Summary      Get requisition by ID
// @Description  Fetch a requisition's details including per-role approval decisions
// @Tags         requisitions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Requisition ID"
// @Success      200  {object}  response.Response{data=service.RequisitionResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/requisitions/{id} [get]
func (h *RequisitionHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	requisition, err := h.requisitionService.GetByID(c.Request.Context(), id)
	if err != nil {
		status := statusFromError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requisition))
}

// GetStatus returns only the overall status of a requisition
// @Summary      Get requisition status
// @Description  Returns the requisition's overall status (Pending, Approved or Rejected)
// @Tags         requisitions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Requisition ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      404  {object}  response.Response
// @Router       /api/requisitions/{id}/status [get]
func (h *RequisitionHandler) GetStatus(c *gin.Context) {
	id := c.Param("id")

	status, err := h.requisitionService.GetStatus(c.Request.Context(), id)
	if err != nil {
		httpStatus := statusFromError(err)
		c.JSON(httpStatus, response.Error(httpStatus, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"status": status}))
}

// Decide records an approval or rejection by the current approver
// @Summary      Decide on requisition
// @Description  Approves or rejects the requisition at the caller's approval step. Approval advances the chain; rejection closes the requisition.
// @Tags         requisitions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Requisition ID"
// @Param        payload  body      service.DecisionRequest  true  "Decision Payload"
// @Success      200      {object}  response.Response{data=service.RequisitionResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/requisitions/{id}/decision [put]
func (h *RequisitionHandler) Decide(c *gin.Context) {
	id := c.Param("id")

	var req service.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")
	userRole := c.GetString("userRole")

	requisition, err := h.requisitionService.Decide(c.Request.Context(), id, userID, userRole, req)
	if err != nil {
		status := statusFromError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requisition))
}

// Delete removes a requisition
// @Summary      Delete requisition
// @Description  Deletes a requisition by ID (admin only)
// @Tags         requisitions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Requisition ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/requisitions/{id} [delete]
func (h *RequisitionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("userID")

	if err := h.requisitionService.Delete(c.Request.Context(), id, userID); err != nil {
		status := statusFromError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Requisition deleted successfully"))
}
