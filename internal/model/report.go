package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRevenue is the income attributed to one account.
type AccountRevenue struct {
	AccountID uuid.UUID       `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
}

type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RevenueSummary: TotalRevenue is gross income, expenses are reported
// separately and only folded into Net.
type RevenueSummary struct {
	TotalRevenue decimal.Decimal  `json:"totalRevenue"`
	TotalIncome  decimal.Decimal  `json:"totalIncome"`
	TotalExpense decimal.Decimal  `json:"totalExpense"`
	Net          decimal.Decimal  `json:"net"`
	ByAccount    []AccountRevenue `json:"byAccount"`
	DailyRevenue []DailyRevenue   `json:"dailyRevenue"`
}

type DailyOrderCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type OrderSummary struct {
	TotalOrders       int               `json:"totalOrders"`
	CompletedOrders   int               `json:"completedOrders"`
	CancelledOrders   int               `json:"cancelledOrders"`
	AverageOrderValue decimal.Decimal   `json:"averageOrderValue"`
	TopItems          map[string]int    `json:"topItems"`
	RecentTrends      []DailyOrderCount `json:"recentTrends"`
}

type StockItemType string

const (
	StockItemRawMaterial StockItemType = "RAW_MATERIAL"
	StockItemProduct     StockItemType = "PRODUCT"
)

// StockItem.Stock is nil for raw materials, which are not numerically tracked.
type StockItem struct {
	ID     uuid.UUID     `json:"id"`
	Name   string        `json:"name"`
	Stock  *int          `json:"stock"`
	Status StockStatus   `json:"status"`
	Type   StockItemType `json:"type"`
}

type StockSummary struct {
	LowStockItems   int         `json:"lowStockItems"`
	OutOfStockItems int         `json:"outOfStockItems"`
	TotalItems      int         `json:"totalItems"`
	Items           []StockItem `json:"items"`
}
