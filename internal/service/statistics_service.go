package service

import (
	"context"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/workflow"

	"github.com/shopspring/decimal"
)

type StatisticsService interface {
	GetStatistics(ctx context.Context) (model.StatisticsResponse, error)
}

type statisticsService struct {
	repo repository.StatisticsRepository
}

func NewStatisticsService(repo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{repo: repo}
}

// GetStatistics aggregates requisition workflow counts and per-store stock valuation
func (s *statisticsService) GetStatistics(ctx context.Context) (model.StatisticsResponse, error) {
	var response model.StatisticsResponse

	total, err := s.repo.CountRequisitionsByStatus(ctx, "")
	if err != nil {
		return response, err
	}
	response.TotalRequisitions = total

	pending, err := s.repo.CountRequisitionsByStatus(ctx, workflow.StatusPending)
	if err != nil {
		return response, err
	}
	response.PendingRequisitions = pending

	approved, err := s.repo.CountRequisitionsByStatus(ctx, workflow.StatusApproved)
	if err != nil {
		return response, err
	}
	response.ApprovedRequisitions = approved

	rejected, err := s.repo.CountRequisitionsByStatus(ctx, workflow.StatusRejected)
	if err != nil {
		return response, err
	}
	response.RejectedRequisitions = rejected

	byStep, err := s.repo.CountPendingByStep(ctx)
	if err != nil {
		return response, err
	}
	response.PendingByStep = byStep

	valuations, err := s.repo.GetStoreStockValues(ctx)
	if err != nil {
		return response, err
	}
	response.StoreStockValues = valuations

	totalValue := decimal.Zero
	for _, v := range valuations {
		totalValue = totalValue.Add(v.StockValue)
	}
	response.TotalStockValue = totalValue

	return response, nil
}
