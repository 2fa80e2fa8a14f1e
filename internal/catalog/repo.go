package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	"github.com/lucasvieira/alugueja-backend/pkg/pagination"
)

// Repository exposes persistence helpers for the equipment catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, equipment *models.Equipment) error
	Get(ctx context.Context, id uuid.UUID) (*models.Equipment, error)
	List(ctx context.Context, params listEquipmentParams) ([]models.Equipment, *pagination.Cursor, error)
	Save(ctx context.Context, equipment *models.Equipment) error
	ReplaceUnits(ctx context.Context, equipmentID uuid.UUID, units []models.AssetUnit) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type listEquipmentParams struct {
	Category string
	Limit    int
	Cursor   *pagination.Cursor
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, equipment *models.Equipment) error {
	return r.db.WithContext(ctx).Create(equipment).Error
}

func (r *repositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	var equipment models.Equipment
	err := r.db.WithContext(ctx).
		Preload("Units", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		First(&equipment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &equipment, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listEquipmentParams) ([]models.Equipment, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Equipment{}).
		Preload("Units", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		})
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var equipment []models.Equipment
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&equipment).Error; err != nil {
		return nil, nil, err
	}

	if len(equipment) > normalized {
		next := equipment[normalized]
		equipment = equipment[:normalized]
		return equipment, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return equipment, nil, nil
}

func (r *repositoryImpl) Save(ctx context.Context, equipment *models.Equipment) error {
	return r.db.WithContext(ctx).
		Omit("Units").
		Save(equipment).Error
}

func (r *repositoryImpl) ReplaceUnits(ctx context.Context, equipmentID uuid.UUID, units []models.AssetUnit) error {
	if err := r.db.WithContext(ctx).
		Where("equipment_id = ?", equipmentID).
		Delete(&models.AssetUnit{}).Error; err != nil {
		return err
	}
	if len(units) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&units).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if err := r.db.WithContext(ctx).
		Where("equipment_id = ?", id).
		Delete(&models.AssetUnit{}).Error; err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Equipment{})
	return result.RowsAffected, result.Error
}
