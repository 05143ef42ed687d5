package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/forage/components"
)

// Perception holds what an agent can see within its extended sight,
// each list ordered nearest first.
type Perception struct {
	Food  []Hit
	Water []Hit
	Mates []Hit
}

// Decision is the outcome of one state evaluation.
// Zero handles mean "no target".
type Decision struct {
	State   components.State
	Food    ecs.Entity
	Water   ecs.Entity
	Partner ecs.Entity
}

// Decide evaluates the agent state machine for one tick.
// It is a pure function of needs and perception. Precedence:
//  1. exhausted needs -> Dead
//  2. hungry and thirsty -> Both, degrading to Hungry/Thirsty when only one kind is in sight
//  3. hungry -> Hungry
//  4. thirsty -> Thirsty
//  5. otherwise Idle, with the nearest agent as mating candidate
func Decide(n components.Needs, p Perception) Decision {
	if n.Exhausted() {
		return Decision{State: components.StateDead}
	}

	hungry := n.Hunger < n.HungerThreshold
	thirsty := n.Thirst < n.ThirstThreshold
	food, haveFood := Nearest(p.Food)
	water, haveWater := Nearest(p.Water)

	switch {
	case hungry && thirsty:
		switch {
		case haveFood && haveWater:
			return Decision{State: components.StateBoth, Food: food, Water: water}
		case haveFood:
			return Decision{State: components.StateHungry, Food: food}
		case haveWater:
			return Decision{State: components.StateThirsty, Water: water}
		}
		return Decision{State: components.StateBoth}

	case hungry:
		return Decision{State: components.StateHungry, Food: food}

	case thirsty:
		return Decision{State: components.StateThirsty, Water: water}
	}

	mate, _ := Nearest(p.Mates)
	return Decision{State: components.StateIdle, Partner: mate}
}

// Apply writes a decision into the agent. It reports whether a newly
// acquired target replaced the previous one.
func (d Decision) Apply(a *components.Agent) (retarget bool) {
	retarget = (!d.Food.IsZero() && d.Food != a.FoodTarget) ||
		(!d.Water.IsZero() && d.Water != a.WaterTarget) ||
		(!d.Partner.IsZero() && d.Partner != a.Partner)

	a.State = d.State
	a.FoodTarget = d.Food
	a.WaterTarget = d.Water
	a.Partner = d.Partner
	return retarget
}
