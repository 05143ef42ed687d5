// Package telemetry provides population statistics, bookmarks, lifetime tracking and run output.
package telemetry

import "github.com/pthm-cable/forage/components"

// DeathCause is the need that ran out when an agent died.
type DeathCause uint8

const (
	CauseStarved DeathCause = iota
	CauseDehydrated
	CauseLifespan
	numCauses
)

func (c DeathCause) String() string {
	switch c {
	case CauseStarved:
		return "starved"
	case CauseDehydrated:
		return "dehydrated"
	case CauseLifespan:
		return "lifespan"
	default:
		return "unknown"
	}
}

// CauseOf reports why an exhausted agent died. Lifespan wins over
// hunger, hunger over thirst.
func CauseOf(n components.Needs) DeathCause {
	switch {
	case n.LifespanUses <= 0:
		return CauseLifespan
	case n.Hunger <= 0:
		return CauseStarved
	default:
		return CauseDehydrated
	}
}

// Census is the population sample taken when a window is flushed.
type Census struct {
	States    [components.NumStates]int
	Hunger    []float64
	Thirst    []float64
	FoodUnits int // Forage units across all food-sources
}

// Population returns the number of live agents counted.
func (c Census) Population() int {
	n := 0
	for s, count := range c.States {
		if components.State(s) != components.StateDead {
			n += count
		}
	}
	return n
}

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks     int32
	windowStartTick int32

	births  int
	matings int
	meals   int
	drinks  int
	deaths  [numCauses]int
	ages    []float64 // Age in ticks of agents that died this window
}

// NewCollector creates a stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int32(windowTicks)}
}

// RecordBirth records n offspring born from one mating.
func (c *Collector) RecordBirth(n int) {
	c.births += n
}

// RecordMating records one completed mating event.
func (c *Collector) RecordMating() {
	c.matings++
}

// RecordMeal records a successful eat.
func (c *Collector) RecordMeal() {
	c.meals++
}

// RecordDrink records a successful drink.
func (c *Collector) RecordDrink() {
	c.drinks++
}

// RecordDeath records an agent removed from the world.
func (c *Collector) RecordDeath(cause DeathCause, ageTicks int32) {
	if cause < numCauses {
		c.deaths[cause]++
	}
	c.ages = append(c.ages, float64(ageTicks))
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, census Census) WindowStats {
	hunger := ComputeNeedStats(census.Hunger)
	thirst := ComputeNeedStats(census.Thirst)
	age := ComputeNeedStats(c.ages)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Population: census.Population(),
		Idle:       census.States[components.StateIdle],
		Hungry:     census.States[components.StateHungry],
		Thirsty:    census.States[components.StateThirsty],
		Both:       census.States[components.StateBoth],

		Births:  c.births,
		Matings: c.matings,
		Meals:   c.meals,
		Drinks:  c.drinks,

		DeathsStarved:    c.deaths[CauseStarved],
		DeathsDehydrated: c.deaths[CauseDehydrated],
		DeathsLifespan:   c.deaths[CauseLifespan],
		AgeAtDeathMean:   age.Mean,

		HungerMean: hunger.Mean,
		HungerStd:  hunger.Std,
		HungerP10:  hunger.P10,
		HungerP50:  hunger.P50,
		HungerP90:  hunger.P90,

		ThirstMean: thirst.Mean,
		ThirstStd:  thirst.Std,
		ThirstP10:  thirst.P10,
		ThirstP50:  thirst.P50,
		ThirstP90:  thirst.P90,

		FoodUnits: census.FoodUnits,
	}

	c.windowStartTick = currentTick
	c.births, c.matings, c.meals, c.drinks = 0, 0, 0, 0
	c.deaths = [numCauses]int{}
	c.ages = c.ages[:0]

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int32 {
	return c.windowTicks
}
