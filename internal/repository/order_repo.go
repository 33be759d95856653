package repository

import (
	"context"

	"chai-adda-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Order, error)
	LockByID(tx *gorm.DB, storeID, id uuid.UUID) (*model.Order, error)
	NextOrderNumber(tx *gorm.DB, storeID uuid.UUID) (int, error)
	UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.OrderStatus, updatedBy string) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

// Create inserts the order and its items.
func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepo) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Preload("Items").
		First(&order, "id = ? AND store_id = ?", id, storeID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) LockByID(tx *gorm.DB, storeID, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ? AND store_id = ?", id, storeID).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("order_id = ?", order.ID).Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// NextOrderNumber returns the store's next sequential order number. It locks
// the store row so concurrent checkouts in one store are numbered in turn.
func (r *orderRepo) NextOrderNumber(tx *gorm.DB, storeID uuid.UUID) (int, error) {
	var store model.Store
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").
		First(&store, "id = ?", storeID).Error; err != nil {
		return 0, err
	}

	var result struct {
		Next int
	}
	err := tx.Unscoped().Model(&model.Order{}).
		Select("COALESCE(MAX(order_number), 0) + 1 AS next").
		Where("store_id = ?", storeID).
		Scan(&result).Error
	return result.Next, err
}

func (r *orderRepo) UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.OrderStatus, updatedBy string) error {
	return tx.Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		}).Error
}
