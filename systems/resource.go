package systems

import (
	"math"
	"math/rand"
	"slices"

	"github.com/pthm-cable/forage/components"
)

// ConsumeUnit destroys the oldest forage unit.
// Consuming from an empty pool is a no-op and reports false, so two agents
// eating from the same source in one tick never fault.
func ConsumeUnit(f *components.Food) bool {
	if len(f.Units) == 0 {
		return false
	}
	f.Units = slices.Delete(f.Units, 0, 1)
	return true
}

// NewForageUnit returns a unit placed uniformly inside a food-source of the given size.
func NewForageUnit(size float64, rng *rand.Rand) components.ForageUnit {
	r := size / 2 * math.Sqrt(rng.Float64())
	theta := rng.Float64() * 2 * math.Pi
	return components.ForageUnit{
		OffsetX: r * math.Cos(theta),
		OffsetY: r * math.Sin(theta),
	}
}

// Regrow rolls once for a new forage unit. Food at its cap never grows.
// Returns true when a unit was added.
func Regrow(f *components.Food, size, chance float64, rng *rand.Rand) bool {
	if f.Full() {
		return false
	}
	if rng.Float64() >= chance {
		return false
	}
	f.Units = append(f.Units, NewForageUnit(size, rng))
	return true
}
