package rentals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
)

// LineItemInput is one equipment claim inside a booking request.
type LineItemInput struct {
	EquipmentID  uuid.UUID
	Qty          int
	AssetUnitIDs []uuid.UUID
}

// CreateInput carries everything needed to book a rental.
type CreateInput struct {
	ClientID uuid.UUID
	Items    []LineItemInput
	Price    decimal.Decimal
	StartsAt time.Time
	EndsAt   time.Time
}

// RenewInput extends a rental's term. NewPrice nil keeps the agreed price.
type RenewInput struct {
	RentalID  uuid.UUID
	NewEndsAt time.Time
	NewPrice  *decimal.Decimal
}

// ListParams configures rental list pagination.
type ListParams struct {
	OnlyActive bool
	Limit      int
	Cursor     string
}

// ListResult wraps returned rentals and the cursor for the next page.
type ListResult struct {
	Items  []models.Rental `json:"items"`
	Cursor string          `json:"cursor"`
}
