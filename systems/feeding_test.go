package systems

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/forage/components"
)

func hungryAgent(t *testing.T) *components.Agent {
	t.Helper()
	es := newEntities(t, 2)
	n := defaultNeeds()
	n.Hunger, n.Thirst = 3, 3
	return &components.Agent{
		Needs:       n,
		State:       components.StateBoth,
		FoodTarget:  es[0],
		WaterTarget: es[1],
	}
}

func TestEatOnOverlap(t *testing.T) {
	a := hungryAgent(t)
	self := Site{Pos: r2.Vec{X: 100, Y: 100}, Size: 10}
	bush := Site{Pos: r2.Vec{X: 120, Y: 100}, Size: 50} // reach 30
	food := &components.Food{Cap: 5, Units: make([]components.ForageUnit, 3)}

	if !Eat(a, self, bush, food) {
		t.Fatal("Eat should succeed on overlap with units left")
	}
	if a.Needs.Hunger != a.Needs.HungerMax {
		t.Errorf("hunger = %d, want %d", a.Needs.Hunger, a.Needs.HungerMax)
	}
	if len(food.Units) != 2 {
		t.Errorf("units = %d, want 2", len(food.Units))
	}
	if a.Needs.LifespanUses != 4 {
		t.Errorf("lifespan uses = %d, want 4", a.Needs.LifespanUses)
	}
	if !a.FoodTarget.IsZero() {
		t.Error("food target should be cleared")
	}
	if a.WaterTarget.IsZero() {
		t.Error("water target should be untouched")
	}
}

func TestEatNoOps(t *testing.T) {
	self := Site{Pos: r2.Vec{X: 0, Y: 0}, Size: 10}
	tests := []struct {
		name  string
		bush  Site
		units int
	}{
		{"not overlapping", Site{Pos: r2.Vec{X: 30, Y: 0}, Size: 50}, 3}, // 30 is not < 30
		{"empty food", Site{Pos: r2.Vec{X: 5, Y: 0}, Size: 50}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := hungryAgent(t)
			before := *a
			food := &components.Food{Cap: 5, Units: make([]components.ForageUnit, tt.units)}

			for i := 0; i < 3; i++ {
				if Eat(a, self, tt.bush, food) {
					t.Fatal("Eat should fail")
				}
			}
			if *a != before {
				t.Errorf("agent changed on failed eat: %+v", a)
			}
			if len(food.Units) != tt.units {
				t.Errorf("units changed: %d", len(food.Units))
			}
		})
	}
}

func TestDrink(t *testing.T) {
	a := hungryAgent(t)
	self := Site{Pos: r2.Vec{X: 0, Y: 0}, Size: 10}
	far := Site{Pos: r2.Vec{X: 100, Y: 0}, Size: 60}
	near := Site{Pos: r2.Vec{X: 20, Y: 0}, Size: 60}

	before := *a
	if Drink(a, self, far) {
		t.Fatal("Drink should fail without overlap")
	}
	if *a != before {
		t.Error("failed drink mutated the agent")
	}

	if !Drink(a, self, near) {
		t.Fatal("Drink should succeed on overlap")
	}
	if a.Needs.Thirst != a.Needs.ThirstMax || a.Needs.LifespanUses != 4 || !a.WaterTarget.IsZero() {
		t.Errorf("unexpected agent after drink: %+v", a.Needs)
	}
	// Water never depletes: drinking again still works
	if !Drink(a, self, near) {
		t.Error("second drink should succeed")
	}
}

func TestConsumptionSpendsLifespan(t *testing.T) {
	a := hungryAgent(t)
	a.Needs.LifespanUses = 1
	self := Site{Pos: r2.Vec{}, Size: 10}
	lake := Site{Pos: r2.Vec{}, Size: 60}

	if !Drink(a, self, lake) {
		t.Fatal("Drink should succeed")
	}
	if a.State != components.StateDead {
		t.Errorf("state = %s, want dead after last use", a.State)
	}
	if Drink(a, self, lake) {
		t.Error("dead agent must not drink")
	}
	if a.Needs.LifespanUses != 0 {
		t.Errorf("lifespan uses = %d, want 0", a.Needs.LifespanUses)
	}
}

func TestConsumeUnitIdempotent(t *testing.T) {
	food := &components.Food{Cap: 2, Units: []components.ForageUnit{{OffsetX: 1}, {OffsetX: 2}}}
	if !ConsumeUnit(food) || food.Units[0].OffsetX != 2 {
		t.Fatalf("expected oldest unit consumed, got %+v", food.Units)
	}
	ConsumeUnit(food)
	if ConsumeUnit(food) {
		t.Error("consuming from empty pool should report false")
	}
	if len(food.Units) != 0 {
		t.Errorf("units = %d, want 0", len(food.Units))
	}
}

func TestRegrow(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	food := &components.Food{Cap: 3}

	if Regrow(food, 50, 0, rng) {
		t.Error("zero chance must never regrow")
	}
	for i := 0; i < 10; i++ {
		Regrow(food, 50, 1, rng)
	}
	if len(food.Units) != 3 {
		t.Errorf("units = %d, want cap 3", len(food.Units))
	}
	for _, u := range food.Units {
		if u.OffsetX*u.OffsetX+u.OffsetY*u.OffsetY > 25*25 {
			t.Errorf("unit %+v outside food-source", u)
		}
	}
}
