package enums

import "fmt"

// TripVisibility maps to the trip_visibility enum in Postgres.
type TripVisibility string

const (
	TripVisibilityPrivate TripVisibility = "private"
	TripVisibilityPublic  TripVisibility = "public"
)

var validTripVisibilities = []TripVisibility{
	TripVisibilityPrivate,
	TripVisibilityPublic,
}

// String implements fmt.Stringer.
func (v TripVisibility) String() string {
	return string(v)
}

// IsValid reports whether the value is a known TripVisibility.
func (v TripVisibility) IsValid() bool {
	for _, candidate := range validTripVisibilities {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseTripVisibility converts raw input into a TripVisibility.
func ParseTripVisibility(value string) (TripVisibility, error) {
	for _, candidate := range validTripVisibilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trip visibility %q", value)
}
