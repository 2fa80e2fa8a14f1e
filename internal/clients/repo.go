package clients

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	"github.com/lucasvieira/alugueja-backend/pkg/enums"
	"github.com/lucasvieira/alugueja-backend/pkg/pagination"
)

// Repository exposes persistence helpers for clients.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, client *models.Client) error
	Get(ctx context.Context, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context, params listClientsParams) ([]models.Client, *pagination.Cursor, error)
	Save(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	HasActiveRentals(ctx context.Context, clientID uuid.UUID) (bool, error)
}

type listClientsParams struct {
	Search string
	Limit  int
	Cursor *pagination.Cursor
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a clients repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *repositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listClientsParams) ([]models.Client, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Client{})
	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var clients []models.Client
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&clients).Error; err != nil {
		return nil, nil, err
	}

	if len(clients) > normalized {
		next := clients[normalized]
		clients = clients[:normalized]
		return clients, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return clients, nil, nil
}

func (r *repositoryImpl) Save(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Client{})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) HasActiveRentals(ctx context.Context, clientID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Rental{}).
		Where("client_id = ? AND status = ?", clientID, enums.RentalStatusActive).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
