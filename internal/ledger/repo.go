package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	"github.com/lucasvieira/alugueja-backend/pkg/enums"
)

// Repository exposes persistence helpers for payment obligations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, obligation *models.PaymentObligation) error
	Get(ctx context.Context, id uuid.UUID) (*models.PaymentObligation, error)
	ListPending(ctx context.Context) ([]models.PaymentObligation, error)
	ListPaid(ctx context.Context) ([]models.PaymentObligation, error)
	ListForRental(ctx context.Context, rentalID uuid.UUID) ([]models.PaymentObligation, error)
	ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]models.PaymentObligation, error)
	ListPendingDueBetween(ctx context.Context, from, to time.Time) ([]models.PaymentObligation, error)
	MarkPaid(ctx context.Context, id uuid.UUID, now time.Time) (markPaidResult, error)
	DeleteForRental(ctx context.Context, rentalID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type markPaidResult struct {
	Found   bool
	Updated bool
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, obligation *models.PaymentObligation) error {
	return r.db.WithContext(ctx).Create(obligation).Error
}

func (r *repositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.PaymentObligation, error) {
	var obligation models.PaymentObligation
	if err := r.db.WithContext(ctx).First(&obligation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &obligation, nil
}

func (r *repositoryImpl) ListPending(ctx context.Context) ([]models.PaymentObligation, error) {
	var obligations []models.PaymentObligation
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.ObligationStatusPending).
		Order("due_at ASC, id ASC").
		Find(&obligations).Error
	return obligations, err
}

func (r *repositoryImpl) ListPaid(ctx context.Context) ([]models.PaymentObligation, error) {
	var obligations []models.PaymentObligation
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.ObligationStatusPaid).
		Order("COALESCE(paid_at, created_at) DESC, id DESC").
		Find(&obligations).Error
	return obligations, err
}

func (r *repositoryImpl) ListForRental(ctx context.Context, rentalID uuid.UUID) ([]models.PaymentObligation, error) {
	var obligations []models.PaymentObligation
	err := r.db.WithContext(ctx).
		Where("rental_id = ?", rentalID).
		Order("sequence ASC").
		Find(&obligations).Error
	return obligations, err
}

func (r *repositoryImpl) ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]models.PaymentObligation, error) {
	var obligations []models.PaymentObligation
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_at < ?", enums.ObligationStatusPending, cutoff).
		Order("due_at ASC").
		Find(&obligations).Error
	return obligations, err
}

func (r *repositoryImpl) ListPendingDueBetween(ctx context.Context, from, to time.Time) ([]models.PaymentObligation, error) {
	var obligations []models.PaymentObligation
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_at >= ? AND due_at < ?", enums.ObligationStatusPending, from, to).
		Order("due_at ASC").
		Find(&obligations).Error
	return obligations, err
}

// MarkPaid flips a pending obligation to paid. The status guard in the
// WHERE clause is what keeps repeated calls from overwriting paid_at.
func (r *repositoryImpl) MarkPaid(ctx context.Context, id uuid.UUID, now time.Time) (markPaidResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentObligation{}).
		Where("id = ? AND status = ?", id, enums.ObligationStatusPending).
		Updates(map[string]any{
			"status":  enums.ObligationStatusPaid,
			"paid_at": now,
		})
	if result.Error != nil {
		return markPaidResult{}, result.Error
	}

	mark := markPaidResult{Updated: result.RowsAffected > 0}
	if mark.Updated {
		mark.Found = true
		return mark, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentObligation{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return markPaidResult{}, err
	}
	mark.Found = count > 0
	return mark, nil
}

func (r *repositoryImpl) DeleteForRental(ctx context.Context, rentalID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("rental_id = ?", rentalID).
		Delete(&models.PaymentObligation{})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.PaymentObligation{})
	return result.RowsAffected, result.Error
}
