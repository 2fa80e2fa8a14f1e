package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	pkgerrors "github.com/lucasvieira/alugueja-backend/pkg/errors"
	"github.com/lucasvieira/alugueja-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type rentalChecker interface {
	IsEquipmentRented(ctx context.Context, equipmentID uuid.UUID) (bool, error)
}

// Service owns the equipment catalog. Equipment referenced by an ACTIVE
// rental cannot be edited or deleted.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Equipment, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Equipment, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Equipment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    Repository
	tx      txRunner
	rentals rentalChecker
}

// NewService wires the catalog dependencies.
func NewService(repo Repository, tx txRunner, rentals rentalChecker) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if rentals == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "rental checker required")
	}
	return &service{repo: repo, tx: tx, rentals: rentals}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Equipment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "equipment name required")
	}
	if input.DefaultPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "default price must not be negative")
	}
	if input.OwnedQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owned quantity must not be negative")
	}

	ownedQty := input.OwnedQty
	units, err := buildUnits(input.Units)
	if err != nil {
		return nil, err
	}
	if len(units) > 0 {
		if ownedQty == 0 {
			ownedQty = len(units)
		}
		if ownedQty != len(units) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "owned quantity must match asset unit count")
		}
	}

	equipment := &models.Equipment{
		Name:            name,
		Category:        strings.TrimSpace(input.Category),
		LegacyAssetCode: input.LegacyAssetCode,
		DefaultPrice:    input.DefaultPrice,
		OwnedQty:        ownedQty,
		Units:           units,
	}
	if err := s.repo.Create(ctx, equipment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create equipment")
	}
	return equipment, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "equipment id required")
	}
	equipment, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load equipment")
	}
	return equipment, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listEquipmentParams{
		Category: strings.TrimSpace(params.Category),
		Limit:    params.Limit,
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list equipment")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Equipment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "equipment id required")
	}

	if err := s.ensureNotRented(ctx, id); err != nil {
		return nil, err
	}

	var equipment *models.Equipment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load equipment")
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "equipment name required")
			}
			current.Name = name
		}
		if input.Category != nil {
			current.Category = strings.TrimSpace(*input.Category)
		}
		if input.LegacyAssetCode != nil {
			current.LegacyAssetCode = input.LegacyAssetCode
		}
		if input.DefaultPrice != nil {
			if input.DefaultPrice.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "default price must not be negative")
			}
			current.DefaultPrice = *input.DefaultPrice
		}
		if input.OwnedQty != nil {
			if *input.OwnedQty < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "owned quantity must not be negative")
			}
			current.OwnedQty = *input.OwnedQty
		}

		if input.Units != nil {
			units, err := buildUnits(*input.Units)
			if err != nil {
				return err
			}
			for i := range units {
				units[i].EquipmentID = current.ID
			}
			if len(units) > 0 {
				current.OwnedQty = len(units)
			}
			if err := repo.ReplaceUnits(ctx, current.ID, units); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace asset units")
			}
			current.Units = units
		} else if len(current.Units) > 0 && current.OwnedQty != len(current.Units) {
			return pkgerrors.New(pkgerrors.CodeValidation, "owned quantity must match asset unit count")
		}

		if err := repo.Save(ctx, current); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save equipment")
		}

		equipment = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return equipment, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "equipment id required")
	}

	if err := s.ensureNotRented(ctx, id); err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete equipment")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
	}
	return nil
}

func (s *service) ensureNotRented(ctx context.Context, id uuid.UUID) error {
	rented, err := s.rentals.IsEquipmentRented(ctx, id)
	if err != nil {
		return err
	}
	if rented {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "equipment is part of an active rental")
	}
	return nil
}

func buildUnits(inputs []UnitInput) ([]models.AssetUnit, error) {
	units := make([]models.AssetUnit, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for i, input := range inputs {
		code := strings.TrimSpace(input.Code)
		if code == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset unit code required")
		}
		if _, dup := seen[code]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate asset unit code")
		}
		seen[code] = struct{}{}
		units = append(units, models.AssetUnit{
			Code:        code,
			Description: input.Description,
			Position:    i,
			CreatedAt:   time.Now().UTC(),
		})
	}
	return units, nil
}
