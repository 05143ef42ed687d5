package game

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/systems"
	"github.com/pthm-cable/forage/telemetry"
)

// Step advances the world by one tick.
func (g *Game) Step() {
	g.perf.StartTick()

	// 1. Capture positions for a consistent view of the tick
	g.perf.StartPhase(telemetry.PhaseSnapshot)
	g.captureView()

	// 2. State machine, movement and consumption
	g.perf.StartPhase(telemetry.PhaseAgents)
	g.updateAgents()

	// 3. Reproduction between idle, overlapping agents
	g.perf.StartPhase(telemetry.PhaseMating)
	g.updateMating()

	// 4. Remove dead agents
	g.perf.StartPhase(telemetry.PhaseCleanup)
	g.cleanupDead()

	// 5. Periodic need decay
	g.perf.StartPhase(telemetry.PhaseDecay)
	g.applyDecay()

	// 6. Forage unit regrowth
	g.perf.StartPhase(telemetry.PhaseRegrow)
	g.regrowFood()

	g.tick++

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perf.EndTick()

	if g.publisher != nil && g.tick%int32(g.publishEvery) == 0 && g.publisher.Active() {
		g.publisher.Publish(g.Snapshot())
	}
}

// captureView records resource and live agent positions at tick start.
// Every agent of the tick perceives this view, not positions already
// updated earlier in the same tick.
func (g *Game) captureView() {
	g.foods = g.foods[:0]
	fq := g.foodFilter.Query()
	for fq.Next() {
		pos, _, _ := fq.Get()
		g.foods = append(g.foods, systems.Candidate{E: fq.Entity(), Pos: pos.Vec()})
	}

	g.waters = g.waters[:0]
	wq := g.waterFilter.Query()
	for wq.Next() {
		pos, _, _ := wq.Get()
		g.waters = append(g.waters, systems.Candidate{E: wq.Entity(), Pos: pos.Vec()})
	}

	g.agents = g.agents[:0]
	aq := g.agentFilter.Query()
	for aq.Next() {
		pos, _, _, a := aq.Get()
		if a.State == components.StateDead {
			continue
		}
		g.agents = append(g.agents, systems.Candidate{E: aq.Entity(), Pos: pos.Vec()})
	}
	g.mateGrid.Rebuild(g.agents)
}

// perceive collects what an agent needs to see this tick. Only the lists
// its needs call for are filled.
func (g *Game) perceive(self ecs.Entity, origin r2.Vec, a *components.Agent) systems.Perception {
	n := a.Needs
	radius := a.ExtendedSight()
	hungry := n.Hunger < n.HungerThreshold
	thirsty := n.Thirst < n.ThirstThreshold

	var p systems.Perception
	if n.Exhausted() {
		return p
	}
	if hungry {
		g.foodHits = systems.FindWithinInto(g.foodHits, origin, self, radius, g.foods)
		p.Food = g.foodHits
	}
	if thirsty {
		g.waterHits = systems.FindWithinInto(g.waterHits, origin, self, radius, g.waters)
		p.Water = g.waterHits
	}
	if !hungry && !thirsty {
		g.mateHits = g.mateGrid.QueryRadiusInto(g.mateHits, origin, self, radius)
		p.Mates = g.mateHits
	}
	return p
}

// aim returns the position the agent should steer toward for a decision.
// An agent seeking both resources heads for the nearer one.
func (g *Game) aim(d systems.Decision, p systems.Perception) (r2.Vec, bool) {
	switch {
	case !d.Food.IsZero() && !d.Water.IsZero():
		if p.Water[0].Dist < p.Food[0].Dist {
			return g.waters[p.Water[0].Index].Pos, true
		}
		return g.foods[p.Food[0].Index].Pos, true
	case !d.Food.IsZero():
		return g.foods[p.Food[0].Index].Pos, true
	case !d.Water.IsZero():
		return g.waters[p.Water[0].Index].Pos, true
	case !d.Partner.IsZero():
		return g.agents[p.Mates[0].Index].Pos, true
	}
	return r2.Vec{}, false
}

// updateAgents runs the state machine, movement and consumption for every
// living agent.
func (g *Game) updateAgents() {
	query := g.agentFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, vel, body, a := query.Get()

		if a.State == components.StateDead {
			continue
		}
		if a.MateCooldown > 0 {
			a.MateCooldown--
		}

		p := g.perceive(entity, pos.Vec(), a)
		d := systems.Decide(a.Needs, p)
		if d.Apply(a) {
			a.PhaseTimer = 0
		}
		if a.State == components.StateDead {
			continue
		}

		target, ok := g.aim(d, p)
		systems.Move(a, pos, vel, target, ok, g.move, g.arena, g.rng)

		g.consume(a, systems.SiteOf(*pos, *body))
	}
}

// consume attempts to eat from and drink at the agent's current targets.
func (g *Game) consume(a *components.Agent, self systems.Site) {
	if g.alive(a.WaterTarget) {
		target := systems.SiteOf(*g.posMap.Get(a.WaterTarget), *g.bodyMap.Get(a.WaterTarget))
		if systems.Drink(a, self, target) {
			g.collector.RecordDrink()
		}
	}
	if a.State == components.StateDead {
		return
	}
	if g.alive(a.FoodTarget) {
		target := systems.SiteOf(*g.posMap.Get(a.FoodTarget), *g.bodyMap.Get(a.FoodTarget))
		if systems.Eat(a, self, target, g.foodMap.Get(a.FoodTarget)) {
			g.collector.RecordMeal()
		}
	}
}

// birth is an offspring queued during the mating pass.
type birth struct {
	pos        components.Position
	body       components.Body
	generation int
}

// updateMating pairs idle agents with their partners and queues offspring.
// Births are spawned after the query completes.
func (g *Game) updateMating() {
	cfg := &g.cfg.Reproduction
	var births []birth

	// Agents that died earlier this tick are still in the world until
	// cleanup, but they do not hold a place under the cap.
	live := 0
	if g.cfg.Population.Max > 0 {
		live = g.liveAgents()
	}

	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, body, a := query.Get()

		if a.State != components.StateIdle || !g.alive(a.Partner) || !g.agentMap.Has(a.Partner) {
			continue
		}

		partner := g.agentMap.Get(a.Partner)
		partnerPos := g.posMap.Get(a.Partner)
		partnerBody := g.bodyMap.Get(a.Partner)

		self := systems.Mate{Agent: a, Site: systems.SiteOf(*pos, *body), Body: *body}
		other := systems.Mate{Agent: partner, Site: systems.SiteOf(*partnerPos, *partnerBody), Body: *partnerBody}
		if !systems.CanMate(self, other) {
			continue
		}

		room := -1
		if max := g.cfg.Population.Max; max > 0 {
			room = max - live - len(births)
		}
		n := systems.OffspringCount(g.rng, cfg.MinOffspring, cfg.MaxOffspring, room)
		if n == 0 {
			continue
		}

		generation := max(g.lifetime.Generation(a.ID), g.lifetime.Generation(partner.ID)) + 1
		child := systems.OffspringBody(self.Body, other.Body)
		for i := 0; i < n; i++ {
			births = append(births, birth{pos: *pos, body: child, generation: generation})
		}

		systems.CompleteMating(a, partner, cfg.CooldownTicks, n)
		g.collector.RecordMating()
		g.collector.RecordBirth(n)
	}

	for _, b := range births {
		e := g.spawnAgent(b.pos, b.body, b.generation)
		g.agentMap.Get(e).MateCooldown = cfg.MaturityTicks
	}
}

// liveAgents counts agents not yet marked dead.
func (g *Game) liveAgents() int {
	n := 0
	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, a := query.Get()
		if a.State != components.StateDead {
			n++
		}
	}
	return n
}

// applyDecay lowers hunger and thirst on every decay interval. An agent
// whose need runs out is marked dead and removed on the next tick.
func (g *Game) applyDecay() {
	if (g.tick+1)%int32(g.cfg.Clock.DecayInterval) != 0 {
		return
	}

	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, a := query.Get()
		if a.State == components.StateDead {
			continue
		}
		a.Needs.Hunger--
		a.Needs.Thirst--
		a.Needs.Clamp()
		if a.Needs.Exhausted() {
			systems.Decision{State: components.StateDead}.Apply(a)
		}
	}
}

// regrowFood rolls forage unit regrowth on every regrow interval.
func (g *Game) regrowFood() {
	if (g.tick+1)%int32(g.cfg.Clock.RegrowInterval) != 0 {
		return
	}

	query := g.foodFilter.Query()
	for query.Next() {
		_, body, food := query.Get()
		systems.Regrow(food, body.Size, g.cfg.Food.RegrowChance, g.rng)
	}
}
