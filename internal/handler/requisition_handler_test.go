package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backend/internal/service"
	"backend/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubRequisitionService struct {
	decideErr error
	getErr    error
}

func (s *stubRequisitionService) Submit(context.Context, string, service.SubmitRequisitionRequest) (service.RequisitionResponse, error) {
	return service.RequisitionResponse{}, nil
}

func (s *stubRequisitionService) GetByID(context.Context, string) (service.RequisitionResponse, error) {
	return service.RequisitionResponse{}, s.getErr
}

func (s *stubRequisitionService) GetStatus(context.Context, string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	return string(workflow.StatusPending), nil
}

func (s *stubRequisitionService) List(context.Context, service.RequisitionFilter) ([]service.RequisitionResponse, int64, error) {
	return nil, 0, nil
}

func (s *stubRequisitionService) Decide(context.Context, string, string, string, service.DecisionRequest) (service.RequisitionResponse, error) {
	return service.RequisitionResponse{}, s.decideErr
}

func (s *stubRequisitionService) Delete(context.Context, string, string) error {
	return s.getErr
}

func newDecisionRouter(svc service.RequisitionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRequisitionHandler(svc)

	router := gin.New()
	router.PUT("/api/requisitions/:id/decision", func(c *gin.Context) {
		c.Set("userID", "8e5ad6f1-63c3-4ba9-9c09-b1a1a0b1c2d3")
		c.Set("userRole", "AEE")
		h.Decide(c)
	})
	router.GET("/api/requisitions/:id/status", h.GetStatus)
	return router
}

func TestDecideErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", service.ErrRequisitionNotFound, http.StatusNotFound},
		{"out of turn", workflow.ErrNotCurrentApprover, http.StatusForbidden},
		{"already closed", workflow.ErrRequisitionClosed, http.StatusConflict},
		{"invalid decision", workflow.ErrInvalidDecision, http.StatusBadRequest},
		{"success", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newDecisionRouter(&stubRequisitionService{decideErr: tt.err})

			body := strings.NewReader(`{"status": "Approved"}`)
			req := httptest.NewRequest(http.MethodPut, "/api/requisitions/abc/decision", body)
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestDecideRejectsMalformedPayload(t *testing.T) {
	router := newDecisionRouter(&stubRequisitionService{})

	// status outside the Approved/Rejected enum fails binding
	body := strings.NewReader(`{"status": "Maybe"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/requisitions/abc/decision", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStatusNotFound(t *testing.T) {
	router := newDecisionRouter(&stubRequisitionService{getErr: service.ErrRequisitionNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/requisitions/abc/status", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
