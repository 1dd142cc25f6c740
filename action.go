package transfer

import (
	"fmt"
	"strings"
)

// Action selects between previewing a transfer and committing it.
type Action uint8

const (
	// Simulate computes the result of a transfer without mutating any state.
	Simulate Action = iota
	// Act performs the transfer and commits the mutation.
	Act
)

func (a Action) String() string {
	switch a {
	case Simulate:
		return "simulate"
	case Act:
		return "act"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// IsSimulate reports whether a is Simulate.
func (a Action) IsSimulate() bool {
	return a == Simulate
}

// ParseAction converts a textual action into its Action value.
func ParseAction(value string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "simulate", "sim":
		return Simulate, nil
	case "act", "execute":
		return Act, nil
	default:
		return Simulate, fmt.Errorf("transfer: unknown action %q", value)
	}
}
