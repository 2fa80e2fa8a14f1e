package availability

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	"github.com/lucasvieira/alugueja-backend/pkg/enums"
)

// Repository exposes the catalog and active-rental reads the engine needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetEquipment(ctx context.Context, id uuid.UUID) (*models.Equipment, error)
	ListActiveItems(ctx context.Context, equipmentID uuid.UUID, excludeRentalID *uuid.UUID) ([]models.RentalItem, error)
	HasActiveItem(ctx context.Context, equipmentID uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an availability repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) GetEquipment(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
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

func (r *repositoryImpl) ListActiveItems(ctx context.Context, equipmentID uuid.UUID, excludeRentalID *uuid.UUID) ([]models.RentalItem, error) {
	query := r.db.WithContext(ctx).
		Model(&models.RentalItem{}).
		Joins("JOIN rentals ON rentals.id = rental_items.rental_id").
		Where("rental_items.equipment_id = ?", equipmentID).
		Where("rentals.status = ?", enums.RentalStatusActive)
	if excludeRentalID != nil {
		query = query.Where("rental_items.rental_id <> ?", *excludeRentalID)
	}

	var items []models.RentalItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repositoryImpl) HasActiveItem(ctx context.Context, equipmentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RentalItem{}).
		Joins("JOIN rentals ON rentals.id = rental_items.rental_id").
		Where("rental_items.equipment_id = ?", equipmentID).
		Where("rentals.status = ?", enums.RentalStatusActive).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
