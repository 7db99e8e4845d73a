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
type CreateCategoryRequest struct {
	CategoryName string `json:"category_name" binding:"required"`
	Code         string `json:"code"`
	Description  string `json:"description"`
}

type UpdateCategoryRequest struct {
	CategoryName string `json:"category_name"`
	Description  string `json:"description"`
	IsActive     *bool  `json:"is_active"`
}

type CategoryResponse struct {
	ID           string `json:"id"`
	CategoryName string `json:"category_name"`
	Code         string `json:"code,omitempty"`
	Description  string `json:"description,omitempty"`
	IsActive     bool   `json:"is_active"`
}

type CategoryService interface {
	GetCategories(ctx context.Context, page, limit int, search string) ([]CategoryResponse, int64, error)
	CreateCategory(ctx context.Context, userID string, req CreateCategoryRequest) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, userID string, id string, req UpdateCategoryRequest) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, userID string, id string) error
}

type categoryService struct {
	repo      repository.CategoryRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewCategoryService(
	repo repository.CategoryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) CategoryService {
	return &categoryService{repo: repo, auditRepo: auditRepo, txManager: txManager}
}

func toCategoryResponse(category *model.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:           category.ID.String(),
		CategoryName: category.CategoryName,
		Code:         category.Code,
		Description:  category.Description,
		IsActive:     category.IsActive,
	}
}

func (s *categoryService) GetCategories(ctx context.Context, page, limit int, search string) ([]CategoryResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	categories, total, err := s.repo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		res = append(res, *toCategoryResponse(&categories[i]))
	}

	return res, total, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, userID string, req CreateCategoryRequest) (*CategoryResponse, error) {
	category := model.Category{
		CategoryName: req.CategoryName,
		Code:         req.Code,
		Description:  req.Description,
		IsActive:     true,
		CreatedBy:    parseUserID(userID),
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, &category); err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionCreateCategory,
			EntityID:   category.ID.String(),
			EntityName: category.CategoryName,
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

	return toCategoryResponse(&category), nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, userID string, id string, req UpdateCategoryRequest) (*CategoryResponse, error) {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", err)
	}

	category, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.CategoryName != "" {
		category.CategoryName = req.CategoryName
	}
	if req.Description != "" {
		category.Description = req.Description
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdatedBy = parseUserID(userID)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, category); err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionUpdateCategory,
			EntityID:   category.ID.String(),
			EntityName: category.CategoryName,
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

	return toCategoryResponse(category), nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, userID string, id string) error {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid category id: %w", err)
	}

	category, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("category not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, categoryID); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}

		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionDeleteCategory,
			EntityID:   category.ID.String(),
			EntityName: category.CategoryName,
			Details:    `{"deleted": true}`,
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
}
