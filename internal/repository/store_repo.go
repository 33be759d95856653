package repository

import (
	"context"

	"chai-adda-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	FindByCode(ctx context.Context, code string) (*model.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	UpdatePinHash(ctx context.Context, id uuid.UUID, role model.Role, hash, updatedBy string) error
}

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepository {
	return &storeRepo{db: db}
}

// Create inserts the store together with its Accounts in one transaction.
func (r *storeRepo) Create(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepo) FindByCode(ctx context.Context, code string) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).Where("store_code = ?", code).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Store{}).Where("store_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *storeRepo) UpdatePinHash(ctx context.Context, id uuid.UUID, role model.Role, hash, updatedBy string) error {
	column := map[model.Role]string{
		model.RoleOwner:   "owner_pin_hash",
		model.RoleCashier: "cashier_pin_hash",
		model.RoleKitchen: "kitchen_pin_hash",
	}[role]
	if column == "" {
		return gorm.ErrInvalidField
	}
	return r.db.WithContext(ctx).Model(&model.Store{}).Where("id = ?", id).
		Updates(map[string]interface{}{column: hash, "updated_by": updatedBy}).Error
}
