package rentals

import (
	"testing"

	"github.com/lucasvieira/alugueja-backend/pkg/enums"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name    string
		current enums.RentalStatus
		payment enums.PaymentStatus
		pickup  enums.PickupStatus
		want    enums.RentalStatus
	}{
		{
			name:    "pending payment stays active",
			current: enums.RentalStatusActive,
			payment: enums.PaymentStatusPending,
			pickup:  enums.PickupStatusCollected,
			want:    enums.RentalStatusActive,
		},
		{
			name:    "pending pickup stays active",
			current: enums.RentalStatusActive,
			payment: enums.PaymentStatusPaid,
			pickup:  enums.PickupStatusNotCollected,
			want:    enums.RentalStatusActive,
		},
		{
			name:    "paid and collected finalizes",
			current: enums.RentalStatusActive,
			payment: enums.PaymentStatusPaid,
			pickup:  enums.PickupStatusCollected,
			want:    enums.RentalStatusFinalized,
		},
		{
			name:    "finalized is sticky",
			current: enums.RentalStatusFinalized,
			payment: enums.PaymentStatusPending,
			pickup:  enums.PickupStatusNotCollected,
			want:    enums.RentalStatusFinalized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveStatus(tt.current, tt.payment, tt.pickup); got != tt.want {
				t.Fatalf("deriveStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}
