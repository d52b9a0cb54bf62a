package enums

import "fmt"

// MessageKind maps to the message_kind enum in Postgres. The set is closed:
// every broadcast and rendering path switches exhaustively over these values.
type MessageKind string

const (
	MessageKindText   MessageKind = "text"
	MessageKindSystem MessageKind = "system"
	MessageKindJoin   MessageKind = "join"
	MessageKindLeave  MessageKind = "leave"
)

var validMessageKinds = []MessageKind{
	MessageKindText,
	MessageKindSystem,
	MessageKindJoin,
	MessageKindLeave,
}

// String implements fmt.Stringer.
func (k MessageKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known MessageKind.
func (k MessageKind) IsValid() bool {
	for _, candidate := range validMessageKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseMessageKind converts raw input into a MessageKind.
func ParseMessageKind(value string) (MessageKind, error) {
	for _, candidate := range validMessageKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid message kind %q", value)
}
