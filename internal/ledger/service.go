package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	"github.com/lucasvieira/alugueja-backend/pkg/enums"
	pkgerrors "github.com/lucasvieira/alugueja-backend/pkg/errors"
)

// Service owns the payment obligation ledger: one obligation per rental
// term, appended on every renewal, settled by MarkPaid.
type Service interface {
	CreateForRental(ctx context.Context, tx *gorm.DB, rental *models.Rental) (*models.PaymentObligation, error)
	AppendRenewal(ctx context.Context, tx *gorm.DB, rental *models.Rental) (*models.PaymentObligation, error)
	MarkPaid(ctx context.Context, obligationID uuid.UUID) error
	ListPending(ctx context.Context) (*ListResult, error)
	ListPaid(ctx context.Context) (*ListResult, error)
	ListForRental(ctx context.Context, rentalID uuid.UUID) ([]models.PaymentObligation, error)
	DeleteForRental(ctx context.Context, tx *gorm.DB, rentalID uuid.UUID) error
	Delete(ctx context.Context, obligationID uuid.UUID) error
}

// ListResult carries a read view plus its recomputed total. The total is a
// plain reducer over the returned rows, no running balance is stored.
type ListResult struct {
	Items []models.PaymentObligation `json:"items"`
	Total decimal.Decimal            `json:"total"`
}

type service struct {
	repo Repository
}

// NewService wires the ledger dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ledger repository required")
	}
	return &service{repo: repo}, nil
}

// CreateForRental writes the sequence-0 obligation covering the original
// term: amount = agreed price, due = expected end.
func (s *service) CreateForRental(ctx context.Context, tx *gorm.DB, rental *models.Rental) (*models.PaymentObligation, error) {
	if rental == nil || rental.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rental required")
	}
	return s.append(ctx, tx, rental, 0)
}

// AppendRenewal writes the obligation for the renewal the rental's counter
// already points at. Callers bump RenewalCount before invoking this.
func (s *service) AppendRenewal(ctx context.Context, tx *gorm.DB, rental *models.Rental) (*models.PaymentObligation, error) {
	if rental == nil || rental.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rental required")
	}
	if rental.RenewalCount < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "renewal count must be at least 1")
	}
	return s.append(ctx, tx, rental, rental.RenewalCount)
}

func (s *service) append(ctx context.Context, tx *gorm.DB, rental *models.Rental, sequence int) (*models.PaymentObligation, error) {
	obligation := &models.PaymentObligation{
		RentalID: rental.ID,
		ClientID: rental.ClientID,
		Amount:   rental.Price,
		DueAt:    rental.EndsAt,
		Status:   enums.ObligationStatusPending,
		Sequence: sequence,
	}
	if err := s.repo.WithTx(tx).Create(ctx, obligation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create obligation")
	}
	return obligation, nil
}

// MarkPaid settles an obligation. Marking an already paid obligation again
// is a no-op: the original paid_at survives.
func (s *service) MarkPaid(ctx context.Context, obligationID uuid.UUID) error {
	if obligationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "obligation id required")
	}

	result, err := s.repo.MarkPaid(ctx, obligationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark obligation paid")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "obligation not found")
	}
	return nil
}

func (s *service) ListPending(ctx context.Context) (*ListResult, error) {
	rows, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending obligations")
	}
	return &ListResult{Items: rows, Total: sumAmounts(rows)}, nil
}

func (s *service) ListPaid(ctx context.Context) (*ListResult, error) {
	rows, err := s.repo.ListPaid(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list paid obligations")
	}
	return &ListResult{Items: rows, Total: sumAmounts(rows)}, nil
}

func (s *service) ListForRental(ctx context.Context, rentalID uuid.UUID) ([]models.PaymentObligation, error) {
	if rentalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rental id required")
	}
	rows, err := s.repo.ListForRental(ctx, rentalID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rental obligations")
	}
	return rows, nil
}

func (s *service) DeleteForRental(ctx context.Context, tx *gorm.DB, rentalID uuid.UUID) error {
	if rentalID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "rental id required")
	}
	if _, err := s.repo.WithTx(tx).DeleteForRental(ctx, rentalID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete rental obligations")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, obligationID uuid.UUID) error {
	if obligationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "obligation id required")
	}
	affected, err := s.repo.Delete(ctx, obligationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete obligation")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "obligation not found")
	}
	return nil
}

func sumAmounts(rows []models.PaymentObligation) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount)
	}
	return total
}
