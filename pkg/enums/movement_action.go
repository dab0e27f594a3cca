package enums

import (
	"fmt"
	"strings"
)

// MovementAction maps to the accion column of registros.
type MovementAction string

const (
	MovementActionEntry MovementAction = "Entrada"
	MovementActionExit  MovementAction = "Salida"
)

var validMovementActions = []MovementAction{
	MovementActionEntry,
	MovementActionExit,
}

// String implements fmt.Stringer.
func (m MovementAction) String() string {
	return string(m)
}

// IsValid reports whether the value is one of the canonical actions.
func (m MovementAction) IsValid() bool {
	for _, candidate := range validMovementActions {
		if candidate == m {
			return true
		}
	}
	return false
}

// Opposite returns the action that is expected to follow m.
func (m MovementAction) Opposite() MovementAction {
	if m == MovementActionEntry {
		return MovementActionExit
	}
	return MovementActionEntry
}

// ParseMovementAction converts raw input into a MovementAction, ignoring case
// and surrounding whitespace.
func ParseMovementAction(value string) (MovementAction, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validMovementActions {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement action %q", value)
}

// PresenceState is derived from a rider's latest movement.
type PresenceState string

const (
	PresenceInside    PresenceState = "dentro"
	PresenceOutside   PresenceState = "fuera"
	PresenceNoRecords PresenceState = "sin_registros"
)

// PresenceAfter returns the presence implied by the last recorded action.
func PresenceAfter(last MovementAction) PresenceState {
	switch last {
	case MovementActionEntry:
		return PresenceInside
	case MovementActionExit:
		return PresenceOutside
	default:
		return PresenceNoRecords
	}
}
