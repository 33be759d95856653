package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxIncome  TransactionType = "INCOME"
	TxExpense TransactionType = "EXPENSE"
)

// Transaction is an immutable ledger line. Amount is always a non-negative
// magnitude; Type carries the direction.
type Transaction struct {
	BaseModel
	StoreScoped
	AccountID uuid.UUID       `gorm:"type:uuid;not null;index" json:"accountId"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Type      TransactionType `gorm:"type:varchar(10);not null;index" json:"type"`
	OrderID   *uuid.UUID      `gorm:"type:uuid;index" json:"orderId,omitempty"`
	Note      string          `gorm:"type:text" json:"note"`
}
