package components

import "github.com/mlange-42/ark/ecs"

// Needs holds an agent's consumable drives and the limits they are judged against.
type Needs struct {
	Hunger          int
	Thirst          int
	HungerMax       int
	ThirstMax       int
	HungerThreshold int
	ThirstThreshold int
	LifespanUses    int // Successful consumptions left before death
}

// Clamp keeps hunger and thirst within [0, max].
func (n *Needs) Clamp() {
	n.Hunger = clampInt(n.Hunger, 0, n.HungerMax)
	n.Thirst = clampInt(n.Thirst, 0, n.ThirstMax)
}

// Exhausted reports whether any need has run out.
func (n Needs) Exhausted() bool {
	return n.LifespanUses <= 0 || n.Hunger <= 0 || n.Thirst <= 0
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Agent holds forager-specific data.
// Target and partner fields are lookups, never ownership: they hold
// generation-checked entity handles that may go stale between ticks.
type Agent struct {
	ID    uint32
	Needs Needs
	State State

	Sight           float64 // Consumption/overlap radius
	SightMultiplier float64 // Extended sight = Sight * SightMultiplier

	FoodTarget  ecs.Entity
	WaterTarget ecs.Entity
	Partner     ecs.Entity

	PhaseTimer   int // Ticks into the current movement cycle
	MateCooldown int // Ticks until the agent may mate again
	BirthTick    int32
	Meals        int
	Drinks       int
	Children     int
}

// ExtendedSight returns the target acquisition radius.
func (a *Agent) ExtendedSight() float64 {
	return a.Sight * a.SightMultiplier
}

// HasTarget reports whether any target or partner handle is set.
func (a *Agent) HasTarget() bool {
	return !a.FoodTarget.IsZero() || !a.WaterTarget.IsZero() || !a.Partner.IsZero()
}
