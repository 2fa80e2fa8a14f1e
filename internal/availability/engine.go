package availability

import (
	"github.com/google/uuid"

	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	pkgerrors "github.com/lucasvieira/alugueja-backend/pkg/errors"
)

// Snapshot reports how much of one equipment type is free right now.
// Derived on demand, never persisted.
type Snapshot struct {
	EquipmentID      uuid.UUID          `json:"equipment_id"`
	Owned            int                `json:"owned"`
	Committed        int                `json:"committed"`
	Available        int                `json:"available"`
	CommittedUnitIDs []uuid.UUID        `json:"committed_unit_ids,omitempty"`
	AvailableUnits   []models.AssetUnit `json:"available_units,omitempty"`
}

// IsAvailable reports whether at least one unit is free.
func (s Snapshot) IsAvailable() bool {
	return s.Available > 0
}

// Compute folds the active line items referencing the equipment into a
// snapshot. Date ranges are ignored on purpose: an ACTIVE rental commits
// its units for its whole active lifetime, calendar awareness is out of
// scope. When committed exceeds owned the snapshot is still returned with
// the raw counts alongside an invalid-state error, never clamped.
func Compute(equipment models.Equipment, activeItems []models.RentalItem) (Snapshot, error) {
	committed := 0
	unitSet := make(map[uuid.UUID]struct{})
	var unitIDs []uuid.UUID

	for _, item := range activeItems {
		if item.EquipmentID != equipment.ID {
			continue
		}
		committed += item.Qty
		for _, id := range item.AssetUnitIDs {
			if _, seen := unitSet[id]; seen {
				continue
			}
			unitSet[id] = struct{}{}
			unitIDs = append(unitIDs, id)
		}
	}

	snap := Snapshot{
		EquipmentID:      equipment.ID,
		Owned:            equipment.OwnedQty,
		Committed:        committed,
		Available:        equipment.OwnedQty - committed,
		CommittedUnitIDs: unitIDs,
		AvailableUnits:   freeUnits(equipment.Units, unitSet),
	}

	if snap.Available < 0 {
		return snap, pkgerrors.New(pkgerrors.CodeInvalidState, "committed quantity exceeds owned quantity").
			WithDetails(map[string]any{
				"equipment_id": equipment.ID,
				"owned":        snap.Owned,
				"committed":    snap.Committed,
			})
	}
	return snap, nil
}

// freeUnits returns the equipment's units minus the committed set, catalog
// order preserved.
func freeUnits(units []models.AssetUnit, committed map[uuid.UUID]struct{}) []models.AssetUnit {
	free := make([]models.AssetUnit, 0, len(units))
	for _, unit := range units {
		if _, taken := committed[unit.ID]; taken {
			continue
		}
		free = append(free, unit)
	}
	return free
}
