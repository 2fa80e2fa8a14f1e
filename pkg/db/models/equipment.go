package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Equipment is one rentable equipment type. When Units is non-empty the
// type is serial-tracked and OwnedQty must equal len(Units); otherwise the
// type is tracked by count alone. LegacyAssetCode carries the single asset
// tag older records stored before per-unit tracking existed.
type Equipment struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string          `gorm:"column:name;not null" json:"name"`
	Category        string          `gorm:"column:category" json:"category"`
	LegacyAssetCode *string         `gorm:"column:legacy_asset_code" json:"legacy_asset_code,omitempty"`
	DefaultPrice    decimal.Decimal `gorm:"column:default_price;type:numeric(12,2);not null" json:"default_price"`
	OwnedQty        int             `gorm:"column:owned_qty;not null;default:0" json:"owned_qty"`
	Units           []AssetUnit     `gorm:"foreignKey:EquipmentID;constraint:OnDelete:CASCADE" json:"units,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Serialized reports whether the equipment tracks individual asset units.
func (e Equipment) Serialized() bool {
	return len(e.Units) > 0
}

// AssetUnit is one individually numbered physical unit (patrimônio) of a
// serial-tracked equipment type. Position preserves catalog order.
type AssetUnit struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EquipmentID uuid.UUID `gorm:"column:equipment_id;type:uuid;not null" json:"equipment_id"`
	Code        string    `gorm:"column:code;not null" json:"code"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	Position    int       `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
