package service

import (
	"context"
	"errors"
	"fmt"

	"chai-adda-pos/internal/model"
	"chai-adda-pos/internal/repository"
	"chai-adda-pos/internal/ws"
	"chai-adda-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LedgerService interface {
	ListAccounts(ctx context.Context, storeID uuid.UUID) ([]model.Account, error)
	CreateAccount(ctx context.Context, storeID uuid.UUID, req *AccountRequest, actor string) (*model.Account, error)
	RecordTransaction(ctx context.Context, storeID uuid.UUID, req *TransactionRequest, actor string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, storeID uuid.UUID, filter repository.TransactionFilter) ([]model.Transaction, error)
}

type AccountRequest struct {
	Name string            `json:"name" validate:"required,max=100"`
	Type model.AccountType `json:"type" validate:"required,oneof=CASH UPI CARD BANK"`
}

type TransactionRequest struct {
	AccountID uuid.UUID             `json:"accountId" validate:"uuid_required"`
	Amount    decimal.Decimal       `json:"amount"`
	Type      model.TransactionType `json:"type" validate:"required,oneof=INCOME EXPENSE"`
	Note      string                `json:"note" validate:"max=255"`
}

type ledgerService struct {
	db          *gorm.DB
	accountRepo repository.AccountRepository
	ledgerRepo  repository.LedgerRepository
	reportRepo  repository.ReportRepository
	events      EventPublisher
}

func NewLedgerService(db *gorm.DB, aRepo repository.AccountRepository, lRepo repository.LedgerRepository, rRepo repository.ReportRepository, events EventPublisher) LedgerService {
	return &ledgerService{
		db:          db,
		accountRepo: aRepo,
		ledgerRepo:  lRepo,
		reportRepo:  rRepo,
		events:      publisherOrNop(events),
	}
}

func (s *ledgerService) ListAccounts(ctx context.Context, storeID uuid.UUID) ([]model.Account, error) {
	return s.accountRepo.FindAll(ctx, storeID)
}

func (s *ledgerService) CreateAccount(ctx context.Context, storeID uuid.UUID, req *AccountRequest, actor string) (*model.Account, error) {
	if msg := validator.FirstError(req); msg != "" {
		return nil, newValidationError(msg)
	}

	account := &model.Account{Name: req.Name, Type: req.Type, Balance: decimal.Zero}
	account.StoreID = storeID
	account.CreatedBy = actor
	account.UpdatedBy = actor

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

// RecordTransaction books a manual ledger line and moves the account balance
// by the same amount in one database transaction.
func (s *ledgerService) RecordTransaction(ctx context.Context, storeID uuid.UUID, req *TransactionRequest, actor string) (*model.Transaction, error) {
	if msg := validator.FirstError(req); msg != "" {
		return nil, newValidationError(msg)
	}
	if !req.Amount.IsPositive() {
		return nil, newValidationError("amount must be greater than zero")
	}

	entry := &model.Transaction{
		AccountID: req.AccountID,
		Amount:    req.Amount,
		Type:      req.Type,
		Note:      req.Note,
	}
	entry.StoreID = storeID
	entry.CreatedBy = actor

	delta := req.Amount
	if req.Type == model.TxExpense {
		delta = delta.Neg()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.ledgerRepo.LockAccount(tx, storeID, req.AccountID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}
		if err := s.ledgerRepo.CreateTransaction(tx, entry); err != nil {
			return err
		}
		return s.ledgerRepo.AdjustBalance(tx, req.AccountID, delta, actor)
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(storeID, ws.Event{
		Type:   "ledger_update",
		Action: "transaction_created",
		Data:   entry,
	})
	return entry, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, storeID uuid.UUID, filter repository.TransactionFilter) ([]model.Transaction, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, ErrInvalidWindow
	}
	if filter.Type != nil && *filter.Type != model.TxIncome && *filter.Type != model.TxExpense {
		return nil, newValidationError("type must be INCOME or EXPENSE")
	}
	return s.reportRepo.ListTransactions(ctx, storeID, filter)
}
