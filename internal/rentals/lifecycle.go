package rentals

import "github.com/lucasvieira/alugueja-backend/pkg/enums"

// deriveStatus recomputes the overall rental status from the payment and
// pickup tracks. Finalization is sticky: once a rental reached FINALIZED,
// recomputation never reverts it. Only the renewal path resets the status
// explicitly, because reopening payment restarts the term.
func deriveStatus(current enums.RentalStatus, payment enums.PaymentStatus, pickup enums.PickupStatus) enums.RentalStatus {
	if current == enums.RentalStatusFinalized {
		return current
	}
	if payment == enums.PaymentStatusPaid && pickup == enums.PickupStatusCollected {
		return enums.RentalStatusFinalized
	}
	return enums.RentalStatusActive
}
