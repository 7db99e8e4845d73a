package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/workflow"
	ws "backend/internal/websocket"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrRequisitionNotFound is returned when a requisition id resolves to nothing
var ErrRequisitionNotFound = errors.New("requisition not found")

// --- DTOs ---

type SubmitRequisitionRequest struct {
	ItemName     string `json:"item_name" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
	Purpose      string `json:"purpose" binding:"required"`
	RequiredDate string `json:"required_date" binding:"required"` // YYYY-MM-DD or RFC3339
	Description  string `json:"description"`
}

type DecisionRequest struct {
	Status   string `json:"status" binding:"required,oneof=Approved Rejected"`
	Notes    string `json:"notes"`
	Comments string `json:"comments"`
}

type RequisitionFilter struct {
	Status string // Pending, Approved, Rejected or empty for all
	Page   int
	Limit  int
}

type ApprovalStepResponse struct {
	Status    string  `json:"status"`
	DecidedAt *string `json:"decided_at,omitempty"`
}

type RequisitionResponse struct {
	ID                  string                          `json:"id"`
	ItemName            string                          `json:"item_name"`
	Quantity            int                             `json:"quantity"`
	Purpose             string                          `json:"purpose"`
	RequiredDate        string                          `json:"required_date"`
	Description         string                          `json:"description,omitempty"`
	Status              string                          `json:"status"`
	CreatedBy           string                          `json:"created_by"`
	CreatorName         string                          `json:"creator_name,omitempty"`
	CurrentApprovalStep *string                         `json:"current_approval_step"`
	Approvals           map[string]ApprovalStepResponse `json:"approvals"`
	Notes               string                          `json:"notes,omitempty"`
	Comments            string                          `json:"comments,omitempty"`
	CreatedAt           string                          `json:"created_at"`
}

// Websocket payload
type RequisitionEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// --- Interface ---

type RequisitionService interface {
	Submit(ctx context.Context, userID string, req SubmitRequisitionRequest) (RequisitionResponse, error)
	GetByID(ctx context.Context, id string) (RequisitionResponse, error)
	GetStatus(ctx context.Context, id string) (string, error)
	List(ctx context.Context, filter RequisitionFilter) ([]RequisitionResponse, int64, error)
	Decide(ctx context.Context, id string, actorID string, actorRole string, req DecisionRequest) (RequisitionResponse, error)
	Delete(ctx context.Context, id string, actorID string) error
}

type requisitionService struct {
	engine    *workflow.Engine
	repo      repository.RequisitionRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	hub       *ws.Hub
	logger    *zap.Logger
}

func NewRequisitionService(
	engine *workflow.Engine,
	repo repository.RequisitionRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	logger *zap.Logger,
) RequisitionService {
	return &requisitionService{
		engine:    engine,
		repo:      repo,
		auditRepo: auditRepo,
		txManager: txManager,
		hub:       hub,
		logger:    logger,
	}
}

// --- Implementation ---

func (s *requisitionService) Submit(ctx context.Context, userID string, req SubmitRequisitionRequest) (RequisitionResponse, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return RequisitionResponse{}, fmt.Errorf("%w: invalid user id", workflow.ErrValidation)
	}

	requiredDate, err := parseDate(req.RequiredDate)
	if err != nil {
		return RequisitionResponse{}, fmt.Errorf("%w: required_date must be YYYY-MM-DD or RFC3339", workflow.ErrValidation)
	}

	snapshot, err := s.engine.Submit(workflow.SubmitInput{
		ItemName:     req.ItemName,
		Quantity:     req.Quantity,
		Purpose:      req.Purpose,
		RequiredDate: requiredDate,
		Description:  req.Description,
		CreatedBy:    creatorID,
	})
	if err != nil {
		return RequisitionResponse{}, err
	}

	row := model.NewRequisitionFromSnapshot(snapshot)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.repo.Create(txCtx, row); createErr != nil {
			return fmt.Errorf("failed to create requisition: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"item_name": req.ItemName,
			"quantity":  req.Quantity,
			"purpose":   req.Purpose,
		})
		audit := &model.AuditLog{
			UserID:     &creatorID,
			Action:     model.ActionSubmitRequisition,
			EntityID:   row.ID.String(),
			EntityName: row.ItemName,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return RequisitionResponse{}, err
	}

	s.logger.Info("requisition submitted",
		zap.String("requisition_id", row.ID.String()),
		zap.String("item_name", row.ItemName),
		zap.String("created_by", creatorID.String()))
	s.broadcast("requisition_submitted", row)

	return toRequisitionResponse(row), nil
}

func (s *requisitionService) GetByID(ctx context.Context, id string) (RequisitionResponse, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return RequisitionResponse{}, err
	}
	return toRequisitionResponse(row), nil
}

func (s *requisitionService) GetStatus(ctx context.Context, id string) (string, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	return row.Status, nil
}

func (s *requisitionService) List(ctx context.Context, filter RequisitionFilter) ([]RequisitionResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	rows, total, err := s.repo.List(ctx, filter.Status, filter.Page, filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch requisitions: %w", err)
	}

	result := make([]RequisitionResponse, 0, len(rows))
	for i := range rows {
		result = append(result, toRequisitionResponse(&rows[i]))
	}
	return result, total, nil
}

// Decide runs one approval-chain transition. The row is locked FOR UPDATE for
// the duration of the transaction, so concurrent decisions on the same
// requisition serialize and the engine always sees the latest step pointer.
func (s *requisitionService) Decide(ctx context.Context, id string, actorID string, actorRole string, req DecisionRequest) (RequisitionResponse, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return RequisitionResponse{}, ErrRequisitionNotFound
	}

	var userID *uuid.UUID
	if parsed, parseErr := uuid.Parse(actorID); parseErr == nil {
		userID = &parsed
	}

	var row *model.Requisition
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		row, findErr = s.repo.FindByIDForUpdate(txCtx, reqID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrRequisitionNotFound
			}
			return fmt.Errorf("failed to load requisition: %w", findErr)
		}

		next, decideErr := s.engine.Decide(
			row.Snapshot(),
			workflow.Role(actorRole),
			workflow.Status(req.Status),
			req.Notes,
			req.Comments,
		)
		if decideErr != nil {
			return decideErr
		}

		row.ApplySnapshot(next)
		if updateErr := s.repo.Update(txCtx, row); updateErr != nil {
			return fmt.Errorf("failed to update requisition: %w", updateErr)
		}

		action := model.ActionApproveRequisitionStep
		if next.Status == workflow.StatusRejected {
			action = model.ActionRejectRequisition
		}
		details, _ := json.Marshal(map[string]interface{}{
			"role":     actorRole,
			"decision": req.Status,
			"status":   row.Status,
			"comments": req.Comments,
		})
		audit := &model.AuditLog{
			UserID:     userID,
			Action:     action,
			EntityID:   row.ID.String(),
			EntityName: row.ItemName,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return RequisitionResponse{}, err
	}

	event := "requisition_approved"
	if row.Status == string(workflow.StatusRejected) {
		event = "requisition_rejected"
	}
	s.logger.Info("requisition decision applied",
		zap.String("requisition_id", row.ID.String()),
		zap.String("role", actorRole),
		zap.String("decision", req.Status),
		zap.String("status", row.Status))
	s.broadcast(event, row)

	return toRequisitionResponse(row), nil
}

func (s *requisitionService) Delete(ctx context.Context, id string, actorID string) error {
	row, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	var userID *uuid.UUID
	if parsed, parseErr := uuid.Parse(actorID); parseErr == nil {
		userID = &parsed
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.repo.Delete(txCtx, row.ID); deleteErr != nil {
			return fmt.Errorf("failed to delete requisition: %w", deleteErr)
		}

		audit := &model.AuditLog{
			UserID:     userID,
			Action:     model.ActionDeleteRequisition,
			EntityID:   row.ID.String(),
			EntityName: row.ItemName,
			Details:    `{"deleted": true}`,
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
}

// --- Helpers ---

func (s *requisitionService) find(ctx context.Context, id string) (*model.Requisition, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrRequisitionNotFound
	}

	row, err := s.repo.FindByID(ctx, reqID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequisitionNotFound
		}
		return nil, fmt.Errorf("failed to load requisition: %w", err)
	}
	return row, nil
}

func (s *requisitionService) broadcast(event string, row *model.Requisition) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(RequisitionEvent{
		Event: event,
		Data: map[string]interface{}{
			"id":                    row.ID.String(),
			"item_name":             row.ItemName,
			"status":                row.Status,
			"current_approval_step": row.CurrentApprovalStep,
		},
	})
	select {
	case s.hub.Broadcast <- payload:
	default:
		// Nobody is pumping the hub; drop rather than block the request.
	}
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func toRequisitionResponse(r *model.Requisition) RequisitionResponse {
	snapshot := r.Snapshot()

	approvals := make(map[string]ApprovalStepResponse, len(snapshot.Steps))
	for role, step := range snapshot.Steps {
		resp := ApprovalStepResponse{Status: string(step.Status)}
		if step.DecidedAt != nil {
			ts := step.DecidedAt.Format(time.RFC3339)
			resp.DecidedAt = &ts
		}
		approvals[string(role)] = resp
	}

	res := RequisitionResponse{
		ID:                  r.ID.String(),
		ItemName:            r.ItemName,
		Quantity:            r.Quantity,
		Purpose:             r.Purpose,
		RequiredDate:        r.RequiredDate.Format("2006-01-02"),
		Description:         r.Description,
		Status:              r.Status,
		CreatedBy:           r.CreatedBy.String(),
		CurrentApprovalStep: r.CurrentApprovalStep,
		Approvals:           approvals,
		Notes:               r.Notes,
		Comments:            r.Comments,
		CreatedAt:           r.CreatedAt.Format(time.RFC3339),
	}
	if r.Creator != nil {
		res.CreatorName = r.Creator.Username
	}
	return res
}
