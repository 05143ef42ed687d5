// Package components defines ECS components for the simulation.
package components

import "fmt"

// Kind distinguishes the top-level entity collections of the world.
type Kind uint8

const (
	KindAgent Kind = iota
	KindFood
	KindWater
)

func (k Kind) String() string {
	switch k {
	case KindAgent:
		return "agent"
	case KindFood:
		return "food"
	case KindWater:
		return "water"
	}
	return "unknown"
}

// State is the behavioral state of an agent.
type State uint8

const (
	StateIdle State = iota
	StateHungry
	StateThirsty
	StateBoth
	StateDead
)

// NumStates is the number of agent states.
const NumStates = 5

// String returns the display name for a State.
func (s State) String() string {
	names := StateNames()
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// StateNames returns the display names for all states.
// The order matches the State constants.
func StateNames() []string {
	return []string{"idle", "hungry", "thirsty", "both", "dead"}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(b []byte) error {
	for i, name := range StateNames() {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", b)
}

// Seeking reports whether the state hunts for food.
func (s State) Seeking(k Kind) bool {
	switch k {
	case KindFood:
		return s == StateHungry || s == StateBoth
	case KindWater:
		return s == StateThirsty || s == StateBoth
	}
	return false
}
