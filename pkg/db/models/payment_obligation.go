package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucasvieira/alugueja-backend/pkg/enums"
)

// PaymentObligation (recebimento) is one installment a rental owes: one
// row for the original term (sequence 0) and one more per renewal. Rows
// are deleted only in bulk with their owning rental.
type PaymentObligation struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RentalID uuid.UUID `gorm:"column:rental_id;type:uuid;not null" json:"rental_id"`
	ClientID uuid.UUID `gorm:"column:client_id;type:uuid;not null" json:"client_id"`

	Amount   decimal.Decimal        `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	DueAt    time.Time              `gorm:"column:due_at;not null" json:"due_at"`
	Status   enums.ObligationStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	PaidAt   *time.Time             `gorm:"column:paid_at" json:"paid_at,omitempty"`
	Sequence int                    `gorm:"column:sequence;not null;default:0" json:"sequence"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
