package model

import "github.com/shopspring/decimal"

// StockStatus is shared by products (derived) and raw materials (stored).
type StockStatus string

const (
	StockAvailable StockStatus = "AVAILABLE"
	StockLow       StockStatus = "LOW"
	StockOut       StockStatus = "OUT"
)

type Product struct {
	BaseModel
	StoreScoped
	Name     string          `gorm:"type:varchar(255);not null" json:"name"`
	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock    int             `gorm:"not null;default:0" json:"stock"`
	MinStock int             `gorm:"not null;default:0" json:"minStock"`
	IsActive bool            `gorm:"not null;index" json:"isActive"`
}

// Status derives the stock status from the numeric level:
// OUT at or below zero, LOW at or below MinStock, AVAILABLE otherwise.
func (p Product) Status() StockStatus {
	switch {
	case p.Stock <= 0:
		return StockOut
	case p.Stock <= p.MinStock:
		return StockLow
	default:
		return StockAvailable
	}
}
