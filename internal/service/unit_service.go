package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type CreateUnitRequest struct {
	UnitName  string `json:"unit_name" binding:"required"`
	UnitValue string `json:"unit_value"`
}

type UpdateUnitRequest struct {
	UnitName  string `json:"unit_name"`
	UnitValue string `json:"unit_value"`
	IsActive  *bool  `json:"is_active"`
}

type UnitResponse struct {
	ID        string `json:"id"`
	UnitName  string `json:"unit_name"`
	UnitValue string `json:"unit_value,omitempty"`
	IsActive  bool   `json:"is_active"`
}

type UnitService interface {
	GetUnits(ctx context.Context, page, limit int, search string) ([]UnitResponse, int64, error)
	CreateUnit(ctx context.Context, userID string, req CreateUnitRequest) (*UnitResponse, error)
	UpdateUnit(ctx context.Context, userID string, id string, req UpdateUnitRequest) (*UnitResponse, error)
	DeleteUnit(ctx context.Context, userID string, id string) error
}

type unitService struct {
	repo      repository.UnitRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewUnitService(
	repo repository.UnitRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) UnitService {
	return &unitService{repo: repo, auditRepo: auditRepo, txManager: txManager}
}

func toUnitResponse(unit *model.Unit) *UnitResponse {
	return &UnitResponse{
		ID:        unit.ID.String(),
		UnitName:  unit.UnitName,
		UnitValue: unit.UnitValue,
		IsActive:  unit.IsActive,
	}
}

func (s *unitService) GetUnits(ctx context.Context, page, limit int, search string) ([]UnitResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	units, total, err := s.repo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]UnitResponse, 0, len(units))
	for i := range units {
		res = append(res, *toUnitResponse(&units[i]))
	}

	return res, total, nil
}

func (s *unitService) CreateUnit(ctx context.Context, userID string, req CreateUnitRequest) (*UnitResponse, error) {
	unit := model.Unit{
		UnitName:  req.UnitName,
		UnitValue: req.UnitValue,
		IsActive:  true,
		CreatedBy: parseUserID(userID),
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, &unit); err != nil {
			return fmt.Errorf("failed to create unit: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionCreateUnit,
			EntityID:   unit.ID.String(),
			EntityName: unit.UnitName,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toUnitResponse(&unit), nil
}

func (s *unitService) UpdateUnit(ctx context.Context, userID string, id string, req UpdateUnitRequest) (*UnitResponse, error) {
	unitID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid unit id: %w", err)
	}

	unit, err := s.repo.FindByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("unit not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.UnitName != "" {
		unit.UnitName = req.UnitName
	}
	if req.UnitValue != "" {
		unit.UnitValue = req.UnitValue
	}
	if req.IsActive != nil {
		unit.IsActive = *req.IsActive
	}
	unit.UpdatedBy = parseUserID(userID)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, unit); err != nil {
			return fmt.Errorf("failed to update unit: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionUpdateUnit,
			EntityID:   unit.ID.String(),
			EntityName: unit.UnitName,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toUnitResponse(unit), nil
}

func (s *unitService) DeleteUnit(ctx context.Context, userID string, id string) error {
	unitID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid unit id: %w", err)
	}

	unit, err := s.repo.FindByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("unit not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, unitID); err != nil {
			return fmt.Errorf("failed to delete unit: %w", err)
		}

		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionDeleteUnit,
			EntityID:   unit.ID.String(),
			EntityName: unit.UnitName,
			Details:    `{"deleted": true}`,
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
}
