package model

import "github.com/shopspring/decimal"

// StatisticsResponse aggregates requisition workflow and stock metrics
type StatisticsResponse struct {
	TotalRequisitions    int64                 `json:"total_requisitions"`
	PendingRequisitions  int64                 `json:"pending_requisitions"`
	ApprovedRequisitions int64                 `json:"approved_requisitions"`
	RejectedRequisitions int64                 `json:"rejected_requisitions"`
	PendingByStep        map[string]int64      `json:"pending_by_step"` // keyed by approval role
	StoreStockValues     []StoreStockValuation `json:"store_stock_values"`
	TotalStockValue      decimal.Decimal       `json:"total_stock_value"`
}

// StoreStockValuation is one store's stock worth (sum of quantity * unit price)
type StoreStockValuation struct {
	StoreID    string          `json:"store_id"`
	StoreName  string          `json:"store_name"`
	ItemCount  int64           `json:"item_count"`
	StockValue decimal.Decimal `json:"stock_value"`
}
