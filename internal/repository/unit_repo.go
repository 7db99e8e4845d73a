package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UnitRepository interface {
	Create(ctx context.Context, unit *model.Unit) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Unit, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Unit, int64, error)
	Update(ctx context.Context, unit *model.Unit) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type unitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) Create(ctx context.Context, unit *model.Unit) error {
	return GetDB(ctx, r.db).Create(unit).Error
}

func (r *unitRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	var unit model.Unit
	if err := GetDB(ctx, r.db).First(&unit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) List(ctx context.Context, page, limit int, search string) ([]model.Unit, int64, error) {
	var units []model.Unit
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Unit{})
	if search != "" {
		db = db.Where("unit_name ILIKE ?", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&units).Error; err != nil {
		return nil, 0, err
	}

	return units, total, nil
}

func (r *unitRepository) Update(ctx context.Context, unit *model.Unit) error {
	return GetDB(ctx, r.db).Save(unit).Error
}

func (r *unitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Unit{}).Error
}
