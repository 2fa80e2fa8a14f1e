package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/lucasvieira/alugueja-backend/pkg/db/types"
	"github.com/lucasvieira/alugueja-backend/pkg/enums"
)

// Rental is a booking of equipment by a client for a time window. The
// delivery, payment and pickup legs advance independently; Status is
// derived from payment+pickup and stays finalized once reached.
type Rental struct {
	ID       uuid.UUID    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID uuid.UUID    `gorm:"column:client_id;type:uuid;not null" json:"client_id"`
	Client   *Client      `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items    []RentalItem `gorm:"foreignKey:RentalID;constraint:OnDelete:CASCADE" json:"items,omitempty"`

	Price    decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	StartsAt time.Time       `gorm:"column:starts_at;not null" json:"starts_at"`
	EndsAt   time.Time       `gorm:"column:ends_at;not null" json:"ends_at"`

	DeliveryStatus     enums.DeliveryStatus `gorm:"column:delivery_status;type:text;not null;default:'not_scheduled'" json:"delivery_status"`
	ExpectedDeliveryAt *time.Time           `gorm:"column:expected_delivery_at" json:"expected_delivery_at,omitempty"`
	DeliveredAt        *time.Time           `gorm:"column:delivered_at" json:"delivered_at,omitempty"`

	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'" json:"payment_status"`
	PaidAt        *time.Time          `gorm:"column:paid_at" json:"paid_at,omitempty"`

	PickupStatus enums.PickupStatus `gorm:"column:pickup_status;type:text;not null;default:'not_collected'" json:"pickup_status"`
	CollectedAt  *time.Time         `gorm:"column:collected_at" json:"collected_at,omitempty"`

	Status        enums.RentalStatus `gorm:"column:status;type:text;not null;default:'active'" json:"status"`
	InvoiceIssued bool               `gorm:"column:invoice_issued;not null;default:false" json:"invoice_issued"`
	RenewalCount  int                `gorm:"column:renewal_count;not null;default:0" json:"renewal_count"`
	LastRenewedAt *time.Time         `gorm:"column:last_renewed_at" json:"last_renewed_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// RentalItem is one equipment type plus quantity inside a rental. For
// serial-tracked equipment AssetUnitIDs names the exact units reserved.
type RentalItem struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RentalID     uuid.UUID         `gorm:"column:rental_id;type:uuid;not null" json:"rental_id"`
	EquipmentID  uuid.UUID         `gorm:"column:equipment_id;type:uuid;not null" json:"equipment_id"`
	Equipment    *Equipment        `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	Qty          int               `gorm:"column:qty;not null;default:1" json:"qty"`
	AssetUnitIDs dbtypes.UUIDArray `gorm:"column:asset_unit_ids;type:uuid[]" json:"asset_unit_ids,omitempty"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
