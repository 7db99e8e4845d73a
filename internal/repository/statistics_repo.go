package repository

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/workflow"

	"gorm.io/gorm"
)

type StatisticsRepository interface {
	CountRequisitionsByStatus(ctx context.Context, status workflow.Status) (int64, error)
	CountPendingByStep(ctx context.Context) (map[string]int64, error)
	GetStoreStockValues(ctx context.Context) ([]model.StoreStockValuation, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) CountRequisitionsByStatus(ctx context.Context, status workflow.Status) (int64, error) {
	var count int64
	q := GetDB(ctx, r.db).Model(&model.Requisition{})
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count requisitions: %w", err)
	}
	return count, nil
}

func (r *statisticsRepository) CountPendingByStep(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Step  string
		Count int64
	}
	if err := GetDB(ctx, r.db).Model(&model.Requisition{}).
		Select("current_approval_step as step, COUNT(*) as count").
		Where("status = ? AND current_approval_step IS NOT NULL", string(workflow.StatusPending)).
		Group("current_approval_step").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending requisitions by step: %w", err)
	}

	byStep := make(map[string]int64, len(rows))
	for _, row := range rows {
		byStep[row.Step] = row.Count
	}
	return byStep, nil
}

func (r *statisticsRepository) GetStoreStockValues(ctx context.Context) ([]model.StoreStockValuation, error) {
	var valuations []model.StoreStockValuation
	if err := GetDB(ctx, r.db).Table("inventories").
		Select("stores.id as store_id, stores.name as store_name, COUNT(inventories.id) as item_count, COALESCE(SUM(inventories.quantity * inventories.unit_price), 0) as stock_value").
		Joins("JOIN stores ON stores.id = inventories.store_id").
		Where("inventories.deleted_at IS NULL").
		Group("stores.id, stores.name").
		Order("stock_value DESC").
		Scan(&valuations).Error; err != nil {
		return nil, fmt.Errorf("failed to query store stock values: %w", err)
	}
	return valuations, nil
}
