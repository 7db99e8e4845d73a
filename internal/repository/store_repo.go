package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error)
	FindByCode(ctx context.Context, code string) (*model.Store, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Store, int64, error)
	Update(ctx context.Context, store *model.Store) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(ctx context.Context, store *model.Store) error {
	return GetDB(ctx, r.db).Create(store).Error
}

func (r *storeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	var store model.Store
	if err := GetDB(ctx, r.db).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindByCode(ctx context.Context, code string) (*model.Store, error) {
	var store model.Store
	if err := GetDB(ctx, r.db).Where("code = ?", code).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) List(ctx context.Context, page, limit int, search string) ([]model.Store, int64, error) {
	var stores []model.Store
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Store{})
	if search != "" {
		db = db.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&stores).Error; err != nil {
		return nil, 0, err
	}

	return stores, total, nil
}

func (r *storeRepository) Update(ctx context.Context, store *model.Store) error {
	return GetDB(ctx, r.db).Save(store).Error
}

func (r *storeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Store{}).Error
}
