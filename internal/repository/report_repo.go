package repository

import (
	"context"
	"time"

	"chai-adda-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionFilter narrows ListTransactions. Nil fields are not applied.
type TransactionFilter struct {
	Type *model.TransactionType
	From *time.Time
	To   *time.Time
}

// OrderFilter narrows ListOrders. From/To are inclusive bounds on created_at.
type OrderFilter struct {
	From         *time.Time
	To           *time.Time
	IncludeItems bool
}

// ReportRepository is the read side every report and listing is built on.
// Each method is scoped to exactly one store.
type ReportRepository interface {
	ListTransactions(ctx context.Context, storeID uuid.UUID, filter TransactionFilter) ([]model.Transaction, error)
	SumTransactions(ctx context.Context, storeID uuid.UUID, txType model.TransactionType, from, to time.Time) (decimal.Decimal, error)
	SumIncomeByAccount(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]model.AccountRevenue, error)
	ListOrders(ctx context.Context, storeID uuid.UUID, filter OrderFilter) ([]model.Order, error)
	ListProducts(ctx context.Context, storeID uuid.UUID, isActive *bool) ([]model.Product, error)
	ListRawMaterials(ctx context.Context, storeID uuid.UUID) ([]model.RawMaterial, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) ListTransactions(ctx context.Context, storeID uuid.UUID, filter TransactionFilter) ([]model.Transaction, error) {
	var transactions []model.Transaction

	query := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	err := query.Order("created_at ASC").Find(&transactions).Error
	return transactions, err
}

func (r *reportRepo) SumTransactions(ctx context.Context, storeID uuid.UUID, txType model.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("store_id = ? AND type = ? AND created_at BETWEEN ? AND ?", storeID, txType, from, to).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *reportRepo) SumIncomeByAccount(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]model.AccountRevenue, error) {
	var results []model.AccountRevenue

	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("account_id, COALESCE(SUM(amount), 0) AS amount").
		Where("store_id = ? AND type = ? AND created_at BETWEEN ? AND ?", storeID, model.TxIncome, from, to).
		Group("account_id").
		Order("account_id ASC").
		Scan(&results).Error
	return results, err
}

func (r *reportRepo) ListOrders(ctx context.Context, storeID uuid.UUID, filter OrderFilter) ([]model.Order, error) {
	var orders []model.Order

	query := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.IncludeItems {
		query = query.Preload("Items")
	}

	err := query.Order("created_at ASC").Find(&orders).Error
	return orders, err
}

func (r *reportRepo) ListProducts(ctx context.Context, storeID uuid.UUID, isActive *bool) ([]model.Product, error) {
	var products []model.Product

	query := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}

	err := query.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *reportRepo) ListRawMaterials(ctx context.Context, storeID uuid.UUID) ([]model.RawMaterial, error) {
	var materials []model.RawMaterial
	err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Order("name ASC").Find(&materials).Error
	return materials, err
}
