package enums

import "fmt"

// NotificationKind labels why a notification row was produced.
type NotificationKind string

const (
	NotificationKindPaymentDueSoon NotificationKind = "payment_due_soon"
	NotificationKindPaymentOverdue NotificationKind = "payment_overdue"
)

var validNotificationKinds = []NotificationKind{
	NotificationKindPaymentDueSoon,
	NotificationKindPaymentOverdue,
}

// String implements fmt.Stringer.
func (n NotificationKind) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationKind.
func (n NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw input into a NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
