package enums

import "fmt"

// RentalStatus is the overall rental state derived from payment and pickup.
// It is sticky: once finalized a rental is never flipped back automatically.
type RentalStatus string

const (
	RentalStatusActive    RentalStatus = "active"
	RentalStatusFinalized RentalStatus = "finalized"
)

var validRentalStatuses = []RentalStatus{
	RentalStatusActive,
	RentalStatusFinalized,
}

// String implements fmt.Stringer.
func (r RentalStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RentalStatus.
func (r RentalStatus) IsValid() bool {
	for _, candidate := range validRentalStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRentalStatus converts raw input into a RentalStatus.
func ParseRentalStatus(value string) (RentalStatus, error) {
	for _, candidate := range validRentalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rental status %q", value)
}
