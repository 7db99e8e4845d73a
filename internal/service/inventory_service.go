package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type CreateInventoryRequest struct {
	ItemName    string `json:"item_name" binding:"required"`
	Quantity    int64  `json:"quantity" binding:"min=0"`
	UnitPrice   string `json:"unit_price"`
	IsAvailable bool   `json:"is_available"`
	Description string `json:"description"`
	StoreID     string `json:"store_id" binding:"required"`
}

type UpdateInventoryRequest struct {
	ItemName    string `json:"item_name"`
	Quantity    *int64 `json:"quantity" binding:"omitempty,min=0"`
	UnitPrice   string `json:"unit_price"`
	IsAvailable *bool  `json:"is_available"`
	Description string `json:"description"`
}

type InventoryResponse struct {
	ID          string          `json:"id"`
	ItemName    string          `json:"item_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	IsAvailable bool            `json:"is_available"`
	Description string          `json:"description,omitempty"`
	StoreID     string          `json:"store_id"`
	StoreName   string          `json:"store_name,omitempty"`
}

type InventoryService interface {
	GetItems(ctx context.Context, storeID string, page, limit int, search string) ([]InventoryResponse, int64, error)
	GetItemByID(ctx context.Context, id string) (*InventoryResponse, error)
	CreateItem(ctx context.Context, userID string, req CreateInventoryRequest) (*InventoryResponse, error)
	UpdateItem(ctx context.Context, userID string, id string, req UpdateInventoryRequest) (*InventoryResponse, error)
	DeleteItem(ctx context.Context, userID string, id string) error
}

type inventoryService struct {
	repo      repository.InventoryRepository
	storeRepo repository.StoreRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewInventoryService(
	repo repository.InventoryRepository,
	storeRepo repository.StoreRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) InventoryService {
	return &inventoryService{
		repo:      repo,
		storeRepo: storeRepo,
		auditRepo: auditRepo,
		txManager: txManager,
	}
}

func toInventoryResponse(item *model.Inventory) *InventoryResponse {
	res := &InventoryResponse{
		ID:          item.ID.String(),
		ItemName:    item.ItemName,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		IsAvailable: item.IsAvailable,
		Description: item.Description,
		StoreID:     item.StoreID.String(),
	}
	if item.Store != nil {
		res.StoreName = item.Store.Name
	}
	return res
}

func parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid unit_price: %w", err)
	}
	if price.IsNegative() {
		return decimal.Zero, errors.New("unit_price must not be negative")
	}
	return price, nil
}

func (s *inventoryService) GetItems(ctx context.Context, storeID string, page, limit int, search string) ([]InventoryResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var filter *uuid.UUID
	if storeID != "" {
		parsed, err := uuid.Parse(storeID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid store_id: %w", err)
		}
		filter = &parsed
	}

	items, total, err := s.repo.List(ctx, filter, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]InventoryResponse, 0, len(items))
	for i := range items {
		res = append(res, *toInventoryResponse(&items[i]))
	}

	return res, total, nil
}

func (s *inventoryService) GetItemByID(ctx context.Context, id string) (*InventoryResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid inventory id: %w", err)
	}

	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("inventory item not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return toInventoryResponse(item), nil
}

func (s *inventoryService) CreateItem(ctx context.Context, userID string, req CreateInventoryRequest) (*InventoryResponse, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, fmt.Errorf("invalid store_id: %w", err)
	}

	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("store not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	price, err := parsePrice(req.UnitPrice)
	if err != nil {
		return nil, err
	}

	item := model.Inventory{
		ItemName:    req.ItemName,
		Quantity:    req.Quantity,
		UnitPrice:   price,
		IsAvailable: req.IsAvailable,
		Description: req.Description,
		StoreID:     storeID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, &item); err != nil {
			return fmt.Errorf("failed to create inventory item: %w", err)
		}

		link := &model.StoreInventory{StoreID: storeID, InventoryID: item.ID}
		if err := s.repo.LinkStore(txCtx, link); err != nil {
			return fmt.Errorf("failed to link item to store: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionCreateInventory,
			EntityID:   item.ID.String(),
			EntityName: item.ItemName,
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

	return toInventoryResponse(&item), nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, userID string, id string, req UpdateInventoryRequest) (*InventoryResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid inventory id: %w", err)
	}

	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("inventory item not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.ItemName != "" {
		item.ItemName = req.ItemName
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.UnitPrice != "" {
		price, priceErr := parsePrice(req.UnitPrice)
		if priceErr != nil {
			return nil, priceErr
		}
		item.UnitPrice = price
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.Description != "" {
		item.Description = req.Description
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, item); err != nil {
			return fmt.Errorf("failed to update inventory item: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionUpdateInventory,
			EntityID:   item.ID.String(),
			EntityName: item.ItemName,
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

	return toInventoryResponse(item), nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, userID string, id string) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid inventory id: %w", err)
	}

	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("inventory item not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, itemID); err != nil {
			return fmt.Errorf("failed to delete inventory item: %w", err)
		}

		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionDeleteInventory,
			EntityID:   item.ID.String(),
			EntityName: item.ItemName,
			Details:    `{"deleted": true}`,
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
}

// parseUserID converts the JWT subject into a nullable uuid for audit rows.
func parseUserID(userID string) *uuid.UUID {
	if parsed, err := uuid.Parse(userID); err == nil {
		return &parsed
	}
	return nil
}
