package availability

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/lucasvieira/alugueja-backend/pkg/errors"
)

// Service exposes availability reads plus the in-transaction allocation
// check the booking and renewal paths run before committing units.
type Service interface {
	ForEquipment(ctx context.Context, equipmentID uuid.UUID) (*Snapshot, error)
	IsEquipmentRented(ctx context.Context, equipmentID uuid.UUID) (bool, error)
	EnsureAvailable(ctx context.Context, tx *gorm.DB, req AllocationRequest) error
}

// AllocationRequest is one line item's claim against an equipment type.
type AllocationRequest struct {
	EquipmentID     uuid.UUID
	Qty             int
	AssetUnitIDs    []uuid.UUID
	ExcludeRentalID *uuid.UUID
}

type service struct {
	repo Repository
}

// NewService wires the availability dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "availability repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ForEquipment(ctx context.Context, equipmentID uuid.UUID) (*Snapshot, error) {
	if equipmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "equipment id required")
	}
	snap, err := s.snapshot(ctx, s.repo, equipmentID, nil)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *service) IsEquipmentRented(ctx context.Context, equipmentID uuid.UUID) (bool, error) {
	if equipmentID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "equipment id required")
	}
	rented, err := s.repo.HasActiveItem(ctx, equipmentID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check equipment usage")
	}
	return rented, nil
}

// EnsureAvailable verifies the requested quantity and asset units are free
// inside the caller's transaction. Over-allocation is a hard rejection.
func (s *service) EnsureAvailable(ctx context.Context, tx *gorm.DB, req AllocationRequest) error {
	if req.EquipmentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "equipment id required")
	}
	if req.Qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	repo := s.repo.WithTx(tx)
	snap, err := s.snapshot(ctx, repo, req.EquipmentID, req.ExcludeRentalID)
	if err != nil {
		return err
	}

	if req.Qty > snap.Available {
		return pkgerrors.New(pkgerrors.CodeInsufficient, "insufficient equipment availability").
			WithDetails(map[string]any{
				"equipment_id": req.EquipmentID,
				"requested":    req.Qty,
				"available":    snap.Available,
			})
	}

	if len(req.AssetUnitIDs) == 0 {
		return nil
	}
	if len(req.AssetUnitIDs) != req.Qty {
		return pkgerrors.New(pkgerrors.CodeValidation, "asset unit count must match quantity")
	}

	free := make(map[uuid.UUID]struct{}, len(snap.AvailableUnits))
	for _, unit := range snap.AvailableUnits {
		free[unit.ID] = struct{}{}
	}
	for _, unitID := range req.AssetUnitIDs {
		if _, ok := free[unitID]; !ok {
			return pkgerrors.New(pkgerrors.CodeInsufficient, "asset unit not available").
				WithDetails(map[string]any{
					"equipment_id":  req.EquipmentID,
					"asset_unit_id": unitID,
				})
		}
	}
	return nil
}

func (s *service) snapshot(ctx context.Context, repo Repository, equipmentID uuid.UUID, excludeRentalID *uuid.UUID) (*Snapshot, error) {
	equipment, err := repo.GetEquipment(ctx, equipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load equipment")
	}

	items, err := repo.ListActiveItems(ctx, equipmentID, excludeRentalID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active commitments")
	}

	snap, err := Compute(*equipment, items)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
