package availability

import (
	"testing"

	"github.com/google/uuid"

	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	pkgerrors "github.com/lucasvieira/alugueja-backend/pkg/errors"
)

func bulkEquipment(owned int) models.Equipment {
	return models.Equipment{ID: uuid.New(), Name: "Mixer", OwnedQty: owned}
}

func serializedEquipment(codes ...string) models.Equipment {
	eq := models.Equipment{ID: uuid.New(), Name: "Scaffold", OwnedQty: len(codes)}
	for i, code := range codes {
		eq.Units = append(eq.Units, models.AssetUnit{
			ID:          uuid.New(),
			EquipmentID: eq.ID,
			Code:        code,
			Position:    i,
		})
	}
	return eq
}

func activeItem(equipmentID uuid.UUID, qty int, unitIDs ...uuid.UUID) models.RentalItem {
	return models.RentalItem{
		ID:           uuid.New(),
		RentalID:     uuid.New(),
		EquipmentID:  equipmentID,
		Qty:          qty,
		AssetUnitIDs: unitIDs,
	}
}

func TestComputeNoActiveRentals(t *testing.T) {
	eq := bulkEquipment(3)

	snap, err := Compute(eq, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Available != 3 || snap.Committed != 0 {
		t.Fatalf("expected 3 free / 0 committed, got %d/%d", snap.Available, snap.Committed)
	}
	if !snap.IsAvailable() {
		t.Fatal("expected equipment to be available")
	}
}

func TestComputeSubtractsCommittedQuantity(t *testing.T) {
	eq := bulkEquipment(3)
	items := []models.RentalItem{
		activeItem(eq.ID, 2),
		activeItem(uuid.New(), 5), // other equipment, ignored
	}

	snap, err := Compute(eq, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Committed != 2 {
		t.Fatalf("expected committed 2, got %d", snap.Committed)
	}
	if snap.Available != 1 {
		t.Fatalf("expected available 1, got %d", snap.Available)
	}
	if !snap.IsAvailable() {
		t.Fatal("expected one free unit")
	}
}

func TestComputeSerializedFullyCommitted(t *testing.T) {
	eq := serializedEquipment("SCF-01")
	items := []models.RentalItem{activeItem(eq.ID, 1, eq.Units[0].ID)}

	snap, err := Compute(eq, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.IsAvailable() {
		t.Fatal("expected nothing available")
	}
	if len(snap.AvailableUnits) != 0 {
		t.Fatalf("expected no free units, got %d", len(snap.AvailableUnits))
	}
	if len(snap.CommittedUnitIDs) != 1 || snap.CommittedUnitIDs[0] != eq.Units[0].ID {
		t.Fatalf("expected committed unit %s", eq.Units[0].ID)
	}
}

func TestComputePreservesCatalogOrder(t *testing.T) {
	eq := serializedEquipment("AND-01", "AND-02", "AND-03")
	items := []models.RentalItem{activeItem(eq.ID, 1, eq.Units[1].ID)}

	snap, err := Compute(eq, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.AvailableUnits) != 2 {
		t.Fatalf("expected 2 free units, got %d", len(snap.AvailableUnits))
	}
	if snap.AvailableUnits[0].Code != "AND-01" || snap.AvailableUnits[1].Code != "AND-03" {
		t.Fatalf("catalog order not preserved: %s, %s", snap.AvailableUnits[0].Code, snap.AvailableUnits[1].Code)
	}
}

func TestComputeDeduplicatesUnitIDs(t *testing.T) {
	eq := serializedEquipment("GRU-01", "GRU-02")
	dup := eq.Units[0].ID
	items := []models.RentalItem{
		activeItem(eq.ID, 1, dup),
		activeItem(eq.ID, 1, dup),
	}

	snap, _ := Compute(eq, items)
	if len(snap.CommittedUnitIDs) != 1 {
		t.Fatalf("expected deduplicated unit ids, got %d", len(snap.CommittedUnitIDs))
	}
}

func TestComputeSurfacesNegativeAvailability(t *testing.T) {
	eq := bulkEquipment(1)
	items := []models.RentalItem{activeItem(eq.ID, 3)}

	snap, err := Compute(eq, items)
	if err == nil {
		t.Fatal("expected invalid state error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeInvalidState {
		t.Fatalf("expected invalid state code, got %s", pkgerrors.As(err).Code())
	}
	// raw counts are reported, not clamped
	if snap.Available != -2 || snap.Committed != 3 {
		t.Fatalf("expected raw counts -2/3, got %d/%d", snap.Available, snap.Committed)
	}
}
