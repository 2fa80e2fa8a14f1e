package enums

import "fmt"

// DeliveryStatus tracks the delivery leg of a rental.
type DeliveryStatus string

const (
	DeliveryStatusNotScheduled DeliveryStatus = "not_scheduled"
	DeliveryStatusScheduled    DeliveryStatus = "scheduled"
	DeliveryStatusDelivered    DeliveryStatus = "delivered"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusNotScheduled,
	DeliveryStatusScheduled,
	DeliveryStatusDelivered,
}

// String implements fmt.Stringer.
func (d DeliveryStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryStatus.
func (d DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryStatus converts raw input into a DeliveryStatus.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}
