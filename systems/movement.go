package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/forage/components"
)

// Arena is the bounded simulation area, [0,W] x [0,H].
type Arena struct {
	W, H float64
}

// MoveParams holds the movement cadence. Durations are in ticks so
// movement is independent of the host frame rate.
type MoveParams struct {
	Speed        float64
	MoveDuration int // Drift ticks at the start of each cycle
	FrameTarget  int // Cycle length; velocity is recomputed at its start
}

// Move advances one agent by one tick.
// At the start of each cycle the velocity is re-aimed at target (when ok)
// or replaced by a random drift vector; for the first MoveDuration ticks of
// the cycle the agent travels along its velocity.
func Move(a *components.Agent, pos *components.Position, vel *components.Velocity,
	target r2.Vec, ok bool, p MoveParams, arena Arena, rng *rand.Rand) {
	if p.FrameTarget < 1 {
		p.FrameTarget = 1
	}
	if a.PhaseTimer >= p.FrameTarget || a.PhaseTimer < 0 {
		a.PhaseTimer = 0
	}

	if a.PhaseTimer == 0 {
		*vel = Steer(pos.Vec(), target, ok, p.Speed, rng)
	}
	if a.PhaseTimer < p.MoveDuration {
		pos.X += vel.X
		pos.Y += vel.Y
		Reflect(pos, vel, arena)
	}

	a.PhaseTimer = (a.PhaseTimer + 1) % p.FrameTarget
}

// Steer returns a velocity of the given speed aimed at target, or a random
// drift vector when there is no target.
func Steer(from, target r2.Vec, ok bool, speed float64, rng *rand.Rand) components.Velocity {
	if ok {
		dir := r2.Sub(target, from)
		if r2.Norm(dir) == 0 {
			return components.Velocity{}
		}
		return components.VelocityOf(r2.Scale(speed, r2.Unit(dir)))
	}
	return components.Velocity{
		X: (rng.Float64()*2 - 1) * speed,
		Y: (rng.Float64()*2 - 1) * speed,
	}
}

// Reflect clamps a position to the arena and negates the velocity
// component for every edge crossed (elastic bounce).
func Reflect(pos *components.Position, vel *components.Velocity, arena Arena) {
	if pos.X < 0 {
		pos.X = 0
		vel.X = -vel.X
	} else if pos.X > arena.W {
		pos.X = arena.W
		vel.X = -vel.X
	}
	if pos.Y < 0 {
		pos.Y = 0
		vel.Y = -vel.Y
	} else if pos.Y > arena.H {
		pos.Y = arena.H
		vel.Y = -vel.Y
	}
}
