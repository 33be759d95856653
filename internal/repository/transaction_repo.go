package repository

import (
	"chai-adda-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository writes ledger lines and keeps account balances in step.
// Every method takes the open transaction it must run in.
type LedgerRepository interface {
	CreateTransaction(tx *gorm.DB, entry *model.Transaction) error
	LockAccount(tx *gorm.DB, storeID, accountID uuid.UUID) (*model.Account, error)
	AdjustBalance(tx *gorm.DB, accountID uuid.UUID, delta decimal.Decimal, updatedBy string) error
}

type ledgerRepo struct{}

func NewLedgerRepo() LedgerRepository {
	return &ledgerRepo{}
}

func (r *ledgerRepo) CreateTransaction(tx *gorm.DB, entry *model.Transaction) error {
	return tx.Create(entry).Error
}

func (r *ledgerRepo) LockAccount(tx *gorm.DB, storeID, accountID uuid.UUID) (*model.Account, error) {
	var account model.Account
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&account, "id = ? AND store_id = ?", accountID, storeID).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// AdjustBalance adds delta (negative for outflows) to the account balance.
func (r *ledgerRepo) AdjustBalance(tx *gorm.DB, accountID uuid.UUID, delta decimal.Decimal, updatedBy string) error {
	return tx.Model(&model.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_by": updatedBy,
		}).Error
}
