package rentals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	"github.com/lucasvieira/alugueja-backend/pkg/enums"
	"github.com/lucasvieira/alugueja-backend/pkg/pagination"
)

// Repository exposes persistence helpers for rentals.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rental *models.Rental) error
	Get(ctx context.Context, id uuid.UUID) (*models.Rental, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Rental, error)
	List(ctx context.Context, params listRentalsParams) ([]models.Rental, *pagination.Cursor, error)
	Save(ctx context.Context, rental *models.Rental) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	ClientExists(ctx context.Context, clientID uuid.UUID) (bool, error)
}

type listRentalsParams struct {
	OnlyActive bool
	Limit      int
	Cursor     *pagination.Cursor
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a rentals repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, rental *models.Rental) error {
	return r.db.WithContext(ctx).Create(rental).Error
}

func (r *repositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	var rental models.Rental
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items").
		Preload("Items.Equipment").
		First(&rental, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

// GetForUpdate locks the rental row so concurrent mutations of the same
// rental serialize inside the caller's transaction.
func (r *repositoryImpl) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	var rental models.Rental
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rental, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listRentalsParams) ([]models.Rental, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Rental{}).
		Preload("Client").
		Preload("Items")
	if params.OnlyActive {
		query = query.Where("status = ?", enums.RentalStatusActive)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rentals []models.Rental
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rentals).Error; err != nil {
		return nil, nil, err
	}

	if len(rentals) > normalized {
		next := rentals[normalized]
		rentals = rentals[:normalized]
		return rentals, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rentals, nil, nil
}

func (r *repositoryImpl) Save(ctx context.Context, rental *models.Rental) error {
	return r.db.WithContext(ctx).
		Omit("Client", "Items").
		Save(rental).Error
}

// Delete removes the rental and its line items. Obligations are the
// ledger's responsibility and must be deleted by the caller first.
func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if err := r.db.WithContext(ctx).
		Where("rental_id = ?", id).
		Delete(&models.RentalItem{}).Error; err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Rental{})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) ClientExists(ctx context.Context, clientID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", clientID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
