package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/forage/components"
)

// Mate describes one side of a mating encounter.
type Mate struct {
	Agent *components.Agent
	Site  Site
	Body  components.Body
}

// MateReach returns the distance under which two agents count as
// overlapping for mating: the larger of their body overlap radius and
// their sight radii.
func MateReach(a, b Mate) float64 {
	return max((a.Site.Size+b.Site.Size)/2, a.Agent.Sight, b.Agent.Sight)
}

// CanMate reports whether two distinct agents may mate this tick:
// both Idle, both off cooldown and within mating reach.
func CanMate(a, b Mate) bool {
	if a.Agent == nil || b.Agent == nil || a.Agent == b.Agent {
		return false
	}
	if a.Agent.State != components.StateIdle || b.Agent.State != components.StateIdle {
		return false
	}
	if a.Agent.MateCooldown > 0 || b.Agent.MateCooldown > 0 {
		return false
	}
	return Distance(a.Site, b.Site) < MateReach(a, b)
}

// OffspringBody returns the inherited body: mean size, averaged color.
func OffspringBody(a, b components.Body) components.Body {
	return components.Body{
		Size:  (a.Size + b.Size) / 2,
		Color: a.Color.Average(b.Color),
	}
}

// OffspringCount draws a uniform count in [lo, hi], limited by room.
// A negative room means unlimited; zero room yields zero offspring.
func OffspringCount(rng *rand.Rand, lo, hi, room int) int {
	if hi < lo {
		hi = lo
	}
	n := lo + rng.Intn(hi-lo+1)
	if room >= 0 && n > room {
		n = room
	}
	return max(n, 0)
}

// CompleteMating clears both partner references and starts both cooldowns,
// so one encounter yields one mating event.
func CompleteMating(a, b *components.Agent, cooldown, children int) {
	for _, p := range []*components.Agent{a, b} {
		p.Partner = ecs.Entity{}
		p.MateCooldown = cooldown
		p.Children += children
	}
}
