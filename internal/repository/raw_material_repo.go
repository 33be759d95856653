package repository

import (
	"context"

	"chai-adda-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RawMaterialRepository interface {
	Create(ctx context.Context, material *model.RawMaterial) error
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.RawMaterial, error)
	Update(ctx context.Context, material *model.RawMaterial) error
	Delete(ctx context.Context, storeID, id uuid.UUID, deletedBy string) error
}

type rawMaterialRepo struct {
	db *gorm.DB
}

func NewRawMaterialRepo(db *gorm.DB) RawMaterialRepository {
	return &rawMaterialRepo{db}
}

func (r *rawMaterialRepo) Create(ctx context.Context, material *model.RawMaterial) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *rawMaterialRepo) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.RawMaterial, error) {
	var material model.RawMaterial
	if err := r.db.WithContext(ctx).First(&material, "id = ? AND store_id = ?", id, storeID).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *rawMaterialRepo) Update(ctx context.Context, material *model.RawMaterial) error {
	return r.db.WithContext(ctx).Save(material).Error
}

// Delete soft deletes and records who did it.
func (r *rawMaterialRepo) Delete(ctx context.Context, storeID, id uuid.UUID, deletedBy string) error {
	result := r.db.WithContext(ctx).Model(&model.RawMaterial{}).
		Where("id = ? AND store_id = ?", id, storeID).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("NOW()"),
			"deleted_by": deletedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
