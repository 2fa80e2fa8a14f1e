package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
)

// UnitInput describes one serialized asset unit on create/update.
type UnitInput struct {
	Code        string
	Description *string
}

// CreateInput carries a new equipment definition. Providing Units switches
// the equipment to serialized tracking; OwnedQty zero is then inferred
// from the unit count.
type CreateInput struct {
	Name            string
	Category        string
	LegacyAssetCode *string
	DefaultPrice    decimal.Decimal
	OwnedQty        int
	Units           []UnitInput
}

// UpdateInput applies partial changes. Nil fields stay untouched; a
// non-nil Units slice replaces the whole unit list.
type UpdateInput struct {
	Name            *string
	Category        *string
	LegacyAssetCode *string
	DefaultPrice    *decimal.Decimal
	OwnedQty        *int
	Units           *[]UnitInput
}

// ListParams configures equipment list pagination.
type ListParams struct {
	Category string
	Limit    int
	Cursor   string
}

// ListResult wraps returned equipment and the cursor for the next page.
type ListResult struct {
	Items  []models.Equipment `json:"items"`
	Cursor string             `json:"cursor"`
}
