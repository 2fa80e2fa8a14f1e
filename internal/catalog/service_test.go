package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	pkgerrors "github.com/lucasvieira/alugueja-backend/pkg/errors"
	"github.com/lucasvieira/alugueja-backend/pkg/pagination"
)

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeRentalChecker struct {
	rented bool
}

func (f *fakeRentalChecker) IsEquipmentRented(ctx context.Context, equipmentID uuid.UUID) (bool, error) {
	return f.rented, nil
}

type fakeRepository struct {
	equipment map[uuid.UUID]*models.Equipment
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{equipment: make(map[uuid.UUID]*models.Equipment)}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, equipment *models.Equipment) error {
	equipment.ID = uuid.New()
	equipment.CreatedAt = time.Now().UTC()
	for i := range equipment.Units {
		equipment.Units[i].ID = uuid.New()
		equipment.Units[i].EquipmentID = equipment.ID
	}
	f.equipment[equipment.ID] = equipment
	return nil
}

func (f *fakeRepository) Get(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	equipment, ok := f.equipment[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return equipment, nil
}

func (f *fakeRepository) List(ctx context.Context, params listEquipmentParams) ([]models.Equipment, *pagination.Cursor, error) {
	var out []models.Equipment
	for _, eq := range f.equipment {
		if params.Category != "" && eq.Category != params.Category {
			continue
		}
		out = append(out, *eq)
	}
	return out, nil, nil
}

func (f *fakeRepository) Save(ctx context.Context, equipment *models.Equipment) error {
	f.equipment[equipment.ID] = equipment
	return nil
}

func (f *fakeRepository) ReplaceUnits(ctx context.Context, equipmentID uuid.UUID, units []models.AssetUnit) error {
	eq, ok := f.equipment[equipmentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range units {
		units[i].ID = uuid.New()
	}
	eq.Units = units
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, ok := f.equipment[id]; !ok {
		return 0, nil
	}
	delete(f.equipment, id)
	return 1, nil
}

type fixture struct {
	svc     Service
	repo    *fakeRepository
	rentals *fakeRentalChecker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeRepository()
	rentals := &fakeRentalChecker{}
	svc, err := NewService(repo, fakeTxRunner{}, rentals)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, repo: repo, rentals: rentals}
}

func TestService_CreateBulkEquipment(t *testing.T) {
	f := newFixture(t)

	equipment, err := f.svc.Create(context.Background(), CreateInput{
		Name:         "Betoneira 400L",
		Category:     "concreto",
		DefaultPrice: decimal.RequireFromString("120.00"),
		OwnedQty:     3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if equipment.OwnedQty != 3 {
		t.Fatalf("expected owned 3, got %d", equipment.OwnedQty)
	}
	if equipment.Serialized() {
		t.Fatal("bulk equipment should not be serialized")
	}
}

func TestService_CreateSerializedInfersOwnedQty(t *testing.T) {
	f := newFixture(t)

	equipment, err := f.svc.Create(context.Background(), CreateInput{
		Name:         "Andaime",
		DefaultPrice: decimal.RequireFromString("80.00"),
		Units: []UnitInput{
			{Code: "AND-01"},
			{Code: "AND-02"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if equipment.OwnedQty != 2 {
		t.Fatalf("expected owned inferred as 2, got %d", equipment.OwnedQty)
	}
	if !equipment.Serialized() {
		t.Fatal("expected serialized tracking")
	}
	if equipment.Units[0].Position != 0 || equipment.Units[1].Position != 1 {
		t.Fatal("unit positions should follow input order")
	}
}

func TestService_CreateSerializedQtyMismatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		Name:         "Andaime",
		DefaultPrice: decimal.Zero,
		OwnedQty:     5,
		Units:        []UnitInput{{Code: "AND-01"}},
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestService_CreateDuplicateUnitCodes(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		Name:         "Andaime",
		DefaultPrice: decimal.Zero,
		Units:        []UnitInput{{Code: "AND-01"}, {Code: "AND-01"}},
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestService_UpdateBlockedWhileRented(t *testing.T) {
	f := newFixture(t)
	equipment, err := f.svc.Create(context.Background(), CreateInput{
		Name:         "Martelete",
		DefaultPrice: decimal.RequireFromString("95.00"),
		OwnedQty:     1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f.rentals.rented = true
	name := "Martelete SDS"
	_, err = f.svc.Update(context.Background(), equipment.ID, UpdateInput{Name: &name})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestService_DeleteBlockedWhileRented(t *testing.T) {
	f := newFixture(t)
	equipment, err := f.svc.Create(context.Background(), CreateInput{
		Name:         "Compactador",
		DefaultPrice: decimal.RequireFromString("150.00"),
		OwnedQty:     1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f.rentals.rented = true
	err = f.svc.Delete(context.Background(), equipment.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestService_UpdateReplacesUnits(t *testing.T) {
	f := newFixture(t)
	equipment, err := f.svc.Create(context.Background(), CreateInput{
		Name:         "Escora",
		DefaultPrice: decimal.Zero,
		Units:        []UnitInput{{Code: "ESC-01"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	units := []UnitInput{{Code: "ESC-01"}, {Code: "ESC-02"}, {Code: "ESC-03"}}
	updated, err := f.svc.Update(context.Background(), equipment.ID, UpdateInput{Units: &units})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.OwnedQty != 3 {
		t.Fatalf("owned quantity should follow unit count, got %d", updated.OwnedQty)
	}
	if len(updated.Units) != 3 {
		t.Fatalf("expected 3 units, got %d", len(updated.Units))
	}
}

func TestService_UpdateNotFound(t *testing.T) {
	f := newFixture(t)
	name := "whatever"
	_, err := f.svc.Update(context.Background(), uuid.New(), UpdateInput{Name: &name})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_DeleteNotFound(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Delete(context.Background(), uuid.New())
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	f := newFixture(t)
	equipment, err := f.svc.Create(context.Background(), CreateInput{
		Name:         "Gerador",
		DefaultPrice: decimal.RequireFromString("300.00"),
		OwnedQty:     1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.Delete(context.Background(), equipment.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), equipment.ID); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatal("equipment should be gone")
	}
}
