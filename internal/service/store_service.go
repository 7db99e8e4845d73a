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
type CreateStoreRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Description string `json:"description"`
}

type UpdateStoreRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type StoreResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Location    string `json:"location"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type StoreService interface {
	GetStores(ctx context.Context, page, limit int, search string) ([]StoreResponse, int64, error)
	GetStoreByID(ctx context.Context, id string) (*StoreResponse, error)
	CreateStore(ctx context.Context, userID string, req CreateStoreRequest) (*StoreResponse, error)
	UpdateStore(ctx context.Context, userID string, id string, req UpdateStoreRequest) (*StoreResponse, error)
	DeleteStore(ctx context.Context, userID string, id string) error
}

type storeService struct {
	repo      repository.StoreRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewStoreService(
	repo repository.StoreRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) StoreService {
	return &storeService{repo: repo, auditRepo: auditRepo, txManager: txManager}
}

func toStoreResponse(store *model.Store) *StoreResponse {
	return &StoreResponse{
		ID:          store.ID.String(),
		Name:        store.Name,
		Code:        store.Code,
		Location:    store.Location,
		Description: store.Description,
		IsActive:    store.IsActive,
	}
}

func (s *storeService) GetStores(ctx context.Context, page, limit int, search string) ([]StoreResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	stores, total, err := s.repo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		res = append(res, *toStoreResponse(&stores[i]))
	}

	return res, total, nil
}

func (s *storeService) GetStoreByID(ctx context.Context, id string) (*StoreResponse, error) {
	storeID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid store id: %w", err)
	}

	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("store not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return toStoreResponse(store), nil
}

func (s *storeService) CreateStore(ctx context.Context, userID string, req CreateStoreRequest) (*StoreResponse, error) {
	if _, err := s.repo.FindByCode(ctx, req.Code); err == nil {
		return nil, errors.New("store code already exists")
	}

	store := model.Store{
		Name:        req.Name,
		Code:        req.Code,
		Location:    req.Location,
		Description: req.Description,
		IsActive:    true,
		CreatedBy:   parseUserID(userID),
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, &store); err != nil {
			return fmt.Errorf("failed to create store: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionCreateStore,
			EntityID:   store.ID.String(),
			EntityName: store.Name,
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

	return toStoreResponse(&store), nil
}

func (s *storeService) UpdateStore(ctx context.Context, userID string, id string, req UpdateStoreRequest) (*StoreResponse, error) {
	storeID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid store id: %w", err)
	}

	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("store not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.Name != "" {
		store.Name = req.Name
	}
	if req.Location != "" {
		store.Location = req.Location
	}
	if req.Description != "" {
		store.Description = req.Description
	}
	if req.IsActive != nil {
		store.IsActive = *req.IsActive
	}
	store.UpdatedBy = parseUserID(userID)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, store); err != nil {
			return fmt.Errorf("failed to update store: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionUpdateStore,
			EntityID:   store.ID.String(),
			EntityName: store.Name,
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

	return toStoreResponse(store), nil
}

func (s *storeService) DeleteStore(ctx context.Context, userID string, id string) error {
	storeID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid store id: %w", err)
	}

	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("store not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, storeID); err != nil {
			return fmt.Errorf("failed to delete store: %w", err)
		}

		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionDeleteStore,
			EntityID:   store.ID.String(),
			EntityName: store.Name,
			Details:    `{"deleted": true}`,
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
}
