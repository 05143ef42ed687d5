package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/forage/components"
)

func TestComputeNeedStats(t *testing.T) {
	// Deliberately unsorted
	values := []float64{9, 4, 2, 5, 4, 7, 4, 5}
	ns := ComputeNeedStats(values)

	if math.Abs(ns.Mean-5) > 1e-9 {
		t.Errorf("mean = %v, want 5", ns.Mean)
	}
	if want := math.Sqrt(32.0 / 7.0); math.Abs(ns.Std-want) > 1e-9 {
		t.Errorf("std = %v, want %v", ns.Std, want)
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"p10", ns.P10, 2},
		{"p50", ns.P50, 4},
		{"p90", ns.P90, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if values[0] != 9 {
		t.Error("input slice must not be reordered")
	}
}

func TestComputeNeedStatsSmall(t *testing.T) {
	if ns := ComputeNeedStats(nil); ns != (NeedStats{}) {
		t.Errorf("empty sample = %+v, want zeros", ns)
	}

	ns := ComputeNeedStats([]float64{3})
	if ns.Mean != 3 || ns.Std != 0 || ns.P10 != 3 || ns.P90 != 3 {
		t.Errorf("single sample = %+v", ns)
	}
}

func TestCauseOf(t *testing.T) {
	tests := []struct {
		name  string
		needs components.Needs
		want  DeathCause
	}{
		{"starved", components.Needs{Hunger: 0, Thirst: 4, LifespanUses: 2}, CauseStarved},
		{"dehydrated", components.Needs{Hunger: 4, Thirst: 0, LifespanUses: 2}, CauseDehydrated},
		{"lifespan", components.Needs{Hunger: 4, Thirst: 4, LifespanUses: 0}, CauseLifespan},
		{"lifespan wins", components.Needs{Hunger: 0, Thirst: 0, LifespanUses: 0}, CauseLifespan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CauseOf(tt.needs); got != tt.want {
				t.Errorf("CauseOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10)

	if c.ShouldFlush(9) {
		t.Error("should not flush before window ends")
	}
	if !c.ShouldFlush(10) {
		t.Error("should flush at window end")
	}

	c.RecordBirth(3)
	c.RecordMating()
	c.RecordMeal()
	c.RecordMeal()
	c.RecordDrink()
	c.RecordDeath(CauseStarved, 100)
	c.RecordDeath(CauseLifespan, 300)

	var census Census
	census.States[components.StateIdle] = 2
	census.States[components.StateHungry] = 1
	census.States[components.StateDead] = 4
	census.Hunger = []float64{10, 4, 8}
	census.FoodUnits = 7

	s := c.Flush(10, census)

	if s.Population != 3 {
		t.Errorf("population = %d, want 3 (dead excluded)", s.Population)
	}
	if s.Births != 3 || s.Matings != 1 || s.Meals != 2 || s.Drinks != 1 {
		t.Errorf("unexpected event counts: %+v", s)
	}
	if s.DeathsStarved != 1 || s.DeathsLifespan != 1 || s.Deaths() != 2 {
		t.Errorf("unexpected deaths: %+v", s)
	}
	if s.AgeAtDeathMean != 200 {
		t.Errorf("age at death mean = %v, want 200", s.AgeAtDeathMean)
	}
	if s.FoodUnits != 7 || s.WindowEndTick != 10 {
		t.Errorf("unexpected window: %+v", s)
	}

	// Counters reset for the next window
	next := c.Flush(20, Census{})
	if next.WindowStartTick != 10 || next.Births != 0 || next.Deaths() != 0 || next.AgeAtDeathMean != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}
