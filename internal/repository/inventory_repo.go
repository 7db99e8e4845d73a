package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryRepository interface {
	Create(ctx context.Context, item *model.Inventory) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error)
	List(ctx context.Context, storeID *uuid.UUID, page, limit int, search string) ([]model.Inventory, int64, error)
	Update(ctx context.Context, item *model.Inventory) error
	Delete(ctx context.Context, id uuid.UUID) error
	LinkStore(ctx context.Context, link *model.StoreInventory) error
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *model.Inventory) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *inventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	var item model.Inventory
	if err := GetDB(ctx, r.db).Preload("Store").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) List(ctx context.Context, storeID *uuid.UUID, page, limit int, search string) ([]model.Inventory, int64, error) {
	var items []model.Inventory
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Inventory{})
	if storeID != nil {
		db = db.Where("store_id = ?", *storeID)
	}
	if search != "" {
		db = db.Where("item_name ILIKE ?", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Store").Order("created_at desc").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *inventoryRepository) Update(ctx context.Context, item *model.Inventory) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *inventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Inventory{}).Error
}

func (r *inventoryRepository) LinkStore(ctx context.Context, link *model.StoreInventory) error {
	return GetDB(ctx, r.db).Create(link).Error
}
