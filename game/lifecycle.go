package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/systems"
	"github.com/pthm-cable/forage/telemetry"
)

// ErrNoRoom is returned when the initial world cannot be placed without overlaps.
var ErrNoRoom = errors.New("no room to place entity")

// SpawnAgent adds a founder agent with the configured default needs.
func (g *Game) SpawnAgent(x, y, size float64, color components.Color) ecs.Entity {
	return g.spawnAgent(components.Position{X: x, Y: y}, components.Body{Size: size, Color: color}, 0)
}

func (g *Game) spawnAgent(pos components.Position, body components.Body, generation int) ecs.Entity {
	c := &g.cfg.Agent
	agent := components.Agent{
		ID: g.nextID,
		Needs: components.Needs{
			Hunger:          c.Hunger,
			Thirst:          c.Thirst,
			HungerMax:       c.HungerMax,
			ThirstMax:       c.ThirstMax,
			HungerThreshold: c.HungerThreshold,
			ThirstThreshold: c.ThirstThreshold,
			LifespanUses:    c.LifespanUses,
		},
		State:           components.StateIdle,
		Sight:           c.Sight,
		SightMultiplier: c.SightMultiplier,
		BirthTick:       g.tick,
	}
	vel := systems.Steer(pos.Vec(), pos.Vec(), false, c.Speed, g.rng)

	e := g.agentMapper.NewEntity(&pos, &vel, &body, &agent)
	g.lifetime.Register(agent.ID, g.tick, generation)
	g.nextID++
	g.numAgents++
	g.extinct = false
	return e
}

// SpawnFood adds a food-source holding the given number of forage units.
func (g *Game) SpawnFood(x, y, size float64, units int) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	body := components.Body{Size: size, Color: components.FoodColor}
	food := components.Food{Cap: g.cfg.Food.UnitCap}
	for range units {
		food.Units = append(food.Units, systems.NewForageUnit(size, g.rng))
	}
	return g.foodMapper.NewEntity(&pos, &body, &food)
}

// SpawnWater adds a water-source.
func (g *Game) SpawnWater(x, y, size float64) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	body := components.Body{Size: size, Color: components.WaterColor}
	return g.waterMapper.NewEntity(&pos, &body, &components.Water{})
}

// populate places the initial agents, food-sources and water-sources by
// rejection sampling: each candidate position is redrawn until it overlaps
// nothing placed before it.
func (g *Game) populate() error {
	cfg := g.cfg
	placed := make([]systems.Site, 0, cfg.Population.Initial+cfg.Food.Count+cfg.Water.Count)

	place := func(kind components.Kind, size, lo float64) (float64, float64, error) {
		w, h := g.arena.W, g.arena.H
		if lo > 0 && (w < 2*lo || h < 2*lo) {
			return 0, 0, fmt.Errorf("%s of size %g: %w", kind, size, ErrNoRoom)
		}
		for range cfg.Population.PlacementAttempts {
			x := lo + g.rng.Float64()*(w-2*lo)
			y := lo + g.rng.Float64()*(h-2*lo)
			s := systems.Site{Pos: components.Position{X: x, Y: y}.Vec(), Size: size}
			if !systems.IsOverlapping(s, placed) {
				placed = append(placed, s)
				return x, y, nil
			}
		}
		return 0, 0, fmt.Errorf("%s of size %g after %d attempts: %w",
			kind, size, cfg.Population.PlacementAttempts, ErrNoRoom)
	}

	for range cfg.Population.Initial {
		size := g.uniform(cfg.Agent.SizeMin, cfg.Agent.SizeMax)
		x, y, err := place(components.KindAgent, size, 0)
		if err != nil {
			return err
		}
		g.SpawnAgent(x, y, size, g.palette.Random(g.rng))
	}

	for range cfg.Food.Count {
		x, y, err := place(components.KindFood, cfg.Food.Size, 0)
		if err != nil {
			return err
		}
		g.SpawnFood(x, y, cfg.Food.Size, cfg.Food.InitialUnits)
	}

	// Water-sources stay fully inside the arena
	for range cfg.Water.Count {
		size := g.uniform(cfg.Water.SizeMin, cfg.Water.SizeMax)
		x, y, err := place(components.KindWater, size, size/2)
		if err != nil {
			return err
		}
		g.SpawnWater(x, y, size)
	}

	slog.Info("world populated",
		"agents", cfg.Population.Initial,
		"food", cfg.Food.Count,
		"water", cfg.Water.Count,
		"seed", g.seed,
	)
	return nil
}

func (g *Game) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// cleanupDead retires and removes every agent marked dead, then clears
// partner handles that pointed at removed agents.
func (g *Game) cleanupDead() {
	var dead []ecs.Entity

	query := g.agentFilter.Query()
	for query.Next() {
		_, _, body, a := query.Get()
		if a.State != components.StateDead {
			continue
		}
		rec := g.lifetime.Retire(a, *body, g.tick)
		g.retired = append(g.retired, rec)
		g.collector.RecordDeath(telemetry.CauseOf(a.Needs), rec.AgeTicks)
		dead = append(dead, query.Entity())
	}

	if len(dead) == 0 {
		return
	}
	for _, e := range dead {
		g.world.RemoveEntity(e)
	}
	g.numAgents -= len(dead)
	g.sweepHandles()

	if g.numAgents == 0 && !g.extinct {
		g.extinct = true
		slog.Info("population extinct", "tick", g.tick)
	}
}

// sweepHandles zeroes target and partner handles whose entity is gone.
func (g *Game) sweepHandles() {
	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, a := query.Get()
		if !a.FoodTarget.IsZero() && !g.world.Alive(a.FoodTarget) {
			a.FoodTarget = ecs.Entity{}
		}
		if !a.WaterTarget.IsZero() && !g.world.Alive(a.WaterTarget) {
			a.WaterTarget = ecs.Entity{}
		}
		if !a.Partner.IsZero() && !g.world.Alive(a.Partner) {
			a.Partner = ecs.Entity{}
		}
	}
}
