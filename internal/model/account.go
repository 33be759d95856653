package model

import "github.com/shopspring/decimal"

type AccountType string

const (
	AccountCash AccountType = "CASH"
	AccountUPI  AccountType = "UPI"
	AccountCard AccountType = "CARD"
	AccountBank AccountType = "BANK"
)

// Account is a money bucket (till, UPI handle, ...) that transactions post to.
type Account struct {
	BaseModel
	StoreScoped
	Name    string          `gorm:"type:varchar(100);not null" json:"name"`
	Type    AccountType     `gorm:"type:varchar(10);not null" json:"type"`
	Balance decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"balance"`
}

// DefaultAccounts are opened for every new store.
func DefaultAccounts() []Account {
	return []Account{
		{Name: "Cash Register", Type: AccountCash, Balance: decimal.Zero},
		{Name: "Main UPI", Type: AccountUPI, Balance: decimal.Zero},
	}
}
