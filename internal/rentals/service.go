package rentals

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucasvieira/alugueja-backend/internal/availability"
	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	"github.com/lucasvieira/alugueja-backend/pkg/enums"
	pkgerrors "github.com/lucasvieira/alugueja-backend/pkg/errors"
	"github.com/lucasvieira/alugueja-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type allocationChecker interface {
	EnsureAvailable(ctx context.Context, tx *gorm.DB, req availability.AllocationRequest) error
}

type obligationLedger interface {
	CreateForRental(ctx context.Context, tx *gorm.DB, rental *models.Rental) (*models.PaymentObligation, error)
	AppendRenewal(ctx context.Context, tx *gorm.DB, rental *models.Rental) (*models.PaymentObligation, error)
	DeleteForRental(ctx context.Context, tx *gorm.DB, rentalID uuid.UUID) error
}

// Service owns the rental lifecycle: booking, the three status tracks,
// finalization, renewal and deletion.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Rental, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Rental, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	ScheduleDelivery(ctx context.Context, id uuid.UUID, when time.Time) (*models.Rental, error)
	ConfirmDelivery(ctx context.Context, id uuid.UUID) (*models.Rental, error)
	ConfirmPayment(ctx context.Context, id uuid.UUID) (*models.Rental, error)
	ConfirmPickup(ctx context.Context, id uuid.UUID) (*models.Rental, error)
	MarkInvoiceIssued(ctx context.Context, id uuid.UUID) (*models.Rental, error)
	Renew(ctx context.Context, input RenewInput) (*models.Rental, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo       Repository
	tx         txRunner
	allocation allocationChecker
	ledger     obligationLedger
}

// NewService wires the rental lifecycle dependencies.
func NewService(repo Repository, tx txRunner, allocation allocationChecker, ledger obligationLedger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "rentals repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if allocation == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "allocation checker required")
	}
	if ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "obligation ledger required")
	}
	return &service{repo: repo, tx: tx, allocation: allocation, ledger: ledger}, nil
}

// Create books a rental: availability is checked for every line item and
// the sequence-0 obligation is written in the same transaction, so an
// over-allocated booking leaves nothing behind.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Rental, error) {
	if input.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date must be after start date")
	}
	seen := make(map[uuid.UUID]struct{}, len(input.Items))
	for _, item := range input.Items {
		if item.EquipmentID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item equipment id required")
		}
		if item.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be positive")
		}
		if _, dup := seen[item.EquipmentID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate equipment in line items")
		}
		seen[item.EquipmentID] = struct{}{}
	}

	rental := &models.Rental{
		ClientID:       input.ClientID,
		Price:          input.Price,
		StartsAt:       input.StartsAt,
		EndsAt:         input.EndsAt,
		DeliveryStatus: enums.DeliveryStatusNotScheduled,
		PaymentStatus:  enums.PaymentStatusPending,
		PickupStatus:   enums.PickupStatusNotCollected,
		Status:         enums.RentalStatusActive,
	}
	for _, item := range input.Items {
		rental.Items = append(rental.Items, models.RentalItem{
			EquipmentID:  item.EquipmentID,
			Qty:          item.Qty,
			AssetUnitIDs: item.AssetUnitIDs,
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := repo.ClientExists(ctx, input.ClientID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check client")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}

		for _, item := range input.Items {
			if err := s.allocation.EnsureAvailable(ctx, tx, availability.AllocationRequest{
				EquipmentID:  item.EquipmentID,
				Qty:          item.Qty,
				AssetUnitIDs: item.AssetUnitIDs,
			}); err != nil {
				return err
			}
		}

		if err := repo.Create(ctx, rental); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rental")
		}

		if _, err := s.ledger.CreateForRental(ctx, tx, rental); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rental id required")
	}
	rental, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rental not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rental")
	}
	return rental, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listRentalsParams{
		OnlyActive: params.OnlyActive,
		Limit:      params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rentals")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) ScheduleDelivery(ctx context.Context, id uuid.UUID, when time.Time) (*models.Rental, error) {
	return s.mutate(ctx, id, func(rental *models.Rental, now time.Time) bool {
		rental.DeliveryStatus = enums.DeliveryStatusScheduled
		rental.ExpectedDeliveryAt = &when
		return true
	})
}

func (s *service) ConfirmDelivery(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	// reachable straight from NOT_SCHEDULED, the scheduled step is optional
	return s.mutate(ctx, id, func(rental *models.Rental, now time.Time) bool {
		rental.DeliveryStatus = enums.DeliveryStatusDelivered
		rental.DeliveredAt = &now
		return true
	})
}

// ConfirmPayment is idempotent: a rental already paid keeps its original
// paid_at and the call succeeds without writing.
func (s *service) ConfirmPayment(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	return s.mutate(ctx, id, func(rental *models.Rental, now time.Time) bool {
		if rental.PaymentStatus == enums.PaymentStatusPaid {
			return false
		}
		rental.PaymentStatus = enums.PaymentStatusPaid
		rental.PaidAt = &now
		rental.Status = deriveStatus(rental.Status, rental.PaymentStatus, rental.PickupStatus)
		return true
	})
}

// ConfirmPickup is idempotent in the same way as ConfirmPayment.
func (s *service) ConfirmPickup(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	return s.mutate(ctx, id, func(rental *models.Rental, now time.Time) bool {
		if rental.PickupStatus == enums.PickupStatusCollected {
			return false
		}
		rental.PickupStatus = enums.PickupStatusCollected
		rental.CollectedAt = &now
		rental.Status = deriveStatus(rental.Status, rental.PaymentStatus, rental.PickupStatus)
		return true
	})
}

func (s *service) MarkInvoiceIssued(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	return s.mutate(ctx, id, func(rental *models.Rental, now time.Time) bool {
		if rental.InvoiceIssued {
			return false
		}
		rental.InvoiceIssued = true
		return true
	})
}

// Renew extends the term, reopens payment and appends the next obligation,
// all in one transaction.
func (s *service) Renew(ctx context.Context, input RenewInput) (*models.Rental, error) {
	if input.RentalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rental id required")
	}
	if input.NewEndsAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "new end date required")
	}
	if input.NewPrice != nil && input.NewPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	var rental *models.Rental
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.GetForUpdate(ctx, input.RentalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "rental not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rental")
		}

		now := time.Now().UTC()
		current.EndsAt = input.NewEndsAt
		if input.NewPrice != nil {
			current.Price = *input.NewPrice
		}
		current.RenewalCount++
		current.LastRenewedAt = &now
		current.PaymentStatus = enums.PaymentStatusPending
		current.PaidAt = nil
		// reopening payment restarts the term, so a finalized rental
		// goes back to active here and only here
		current.Status = enums.RentalStatusActive

		if err := repo.Save(ctx, current); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save rental")
		}

		if _, err := s.ledger.AppendRenewal(ctx, tx, current); err != nil {
			return err
		}

		rental = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rental, nil
}

// Delete removes the rental together with its obligations.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "rental id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.ledger.DeleteForRental(ctx, tx, id); err != nil {
			return err
		}

		affected, err := s.repo.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete rental")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "rental not found")
		}
		return nil
	})
}

// mutate runs a locked read-modify-write on one rental. apply returns
// false when there is nothing to write (idempotent no-op).
func (s *service) mutate(ctx context.Context, id uuid.UUID, apply func(rental *models.Rental, now time.Time) bool) (*models.Rental, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rental id required")
	}

	var rental *models.Rental
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "rental not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rental")
		}

		if apply(current, time.Now().UTC()) {
			if err := repo.Save(ctx, current); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save rental")
			}
		}

		rental = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rental, nil
}
