package enums

import "fmt"

// PickupStatus tracks whether the equipment has been collected back.
type PickupStatus string

const (
	PickupStatusNotCollected PickupStatus = "not_collected"
	PickupStatusCollected    PickupStatus = "collected"
)

var validPickupStatuses = []PickupStatus{
	PickupStatusNotCollected,
	PickupStatusCollected,
}

// String implements fmt.Stringer.
func (p PickupStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PickupStatus.
func (p PickupStatus) IsValid() bool {
	for _, candidate := range validPickupStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePickupStatus converts raw input into a PickupStatus.
func ParsePickupStatus(value string) (PickupStatus, error) {
	for _, candidate := range validPickupStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pickup status %q", value)
}
