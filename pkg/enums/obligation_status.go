package enums

import "fmt"

// ObligationStatus tracks a single payment obligation (recebimento).
type ObligationStatus string

const (
	ObligationStatusPending ObligationStatus = "pending"
	ObligationStatusPaid    ObligationStatus = "paid"
)

var validObligationStatuses = []ObligationStatus{
	ObligationStatusPending,
	ObligationStatusPaid,
}

// String implements fmt.Stringer.
func (o ObligationStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known ObligationStatus.
func (o ObligationStatus) IsValid() bool {
	for _, candidate := range validObligationStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseObligationStatus converts raw input into an ObligationStatus.
func ParseObligationStatus(value string) (ObligationStatus, error) {
	for _, candidate := range validObligationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid obligation status %q", value)
}
