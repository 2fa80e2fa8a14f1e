package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lucasvieira/alugueja-backend/pkg/enums"
)

// Notification is a row surfaced to the owner's app inbox. Push delivery
// is handled outside this backend; rows here only feed the list view.
type Notification struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Kind         enums.NotificationKind `gorm:"column:kind;type:text;not null" json:"kind"`
	RentalID     *uuid.UUID             `gorm:"column:rental_id;type:uuid" json:"rental_id,omitempty"`
	ObligationID *uuid.UUID             `gorm:"column:obligation_id;type:uuid" json:"obligation_id,omitempty"`
	Title        string                 `gorm:"column:title;not null" json:"title"`
	Message      string                 `gorm:"column:message;not null" json:"message"`
	ReadAt       *time.Time             `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
