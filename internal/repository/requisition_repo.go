package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RequisitionRepository interface {
	Create(ctx context.Context, req *model.Requisition) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Requisition, error)
	// FindByIDForUpdate takes a row lock so concurrent decisions on the same
	// requisition serialize inside the surrounding transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Requisition, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Requisition, int64, error)
	Update(ctx context.Context, req *model.Requisition) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type requisitionRepository struct {
	db *gorm.DB
}

func NewRequisitionRepository(db *gorm.DB) RequisitionRepository {
	return &requisitionRepository{db: db}
}

func (r *requisitionRepository) Create(ctx context.Context, req *model.Requisition) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *requisitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Requisition, error) {
	var req model.Requisition
	if err := GetDB(ctx, r.db).Preload("Creator").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requisitionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Requisition, error) {
	var req model.Requisition
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requisitionRepository) List(ctx context.Context, status string, page, limit int) ([]model.Requisition, int64, error) {
	var requisitions []model.Requisition
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Requisition{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetchQuery := db.Preload("Creator")
	if status != "" {
		fetchQuery = fetchQuery.Where("status = ?", status)
	}
	if err := fetchQuery.Order("created_at DESC").Offset(offset).Limit(limit).Find(&requisitions).Error; err != nil {
		return nil, 0, err
	}

	return requisitions, total, nil
}

func (r *requisitionRepository) Update(ctx context.Context, req *model.Requisition) error {
	return GetDB(ctx, r.db).Save(req).Error
}

func (r *requisitionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Requisition{}).Error
}
