package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/forage/components"
)

// Eat consumes one forage unit from the agent's food target.
// It succeeds only when the agent overlaps the target and the target still
// holds a unit; otherwise it is a silent no-op. On success hunger is
// refilled, one lifespan use is spent and the food target is cleared.
func Eat(a *components.Agent, self, target Site, food *components.Food) bool {
	if a.State == components.StateDead || food == nil {
		return false
	}
	if !Overlapping(self, target) || !food.Available() {
		return false
	}
	if !ConsumeUnit(food) {
		return false
	}

	a.Needs.Hunger = a.Needs.HungerMax
	a.FoodTarget = ecs.Entity{}
	a.Meals++
	spendUse(a)
	return true
}

// Drink refills thirst from the agent's water target when overlapping it.
// Water never depletes. A miss is a silent no-op.
func Drink(a *components.Agent, self, target Site) bool {
	if a.State == components.StateDead || !Overlapping(self, target) {
		return false
	}

	a.Needs.Thirst = a.Needs.ThirstMax
	a.WaterTarget = ecs.Entity{}
	a.Drinks++
	spendUse(a)
	return true
}

// spendUse decrements lifespan uses; the agent dies when they run out.
func spendUse(a *components.Agent) {
	a.Needs.LifespanUses--
	if a.Needs.LifespanUses <= 0 {
		a.Needs.LifespanUses = 0
		a.State = components.StateDead
	}
}
