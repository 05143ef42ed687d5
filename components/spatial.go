package components

import "gonum.org/v1/gonum/spatial/r2"

// Position represents an entity's center in arena coordinates.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Velocity represents an entity's per-tick displacement.
type Velocity struct {
	X, Y float64
}

// Vec returns the velocity as a vector.
func (v Velocity) Vec() r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}

// VelocityOf converts a vector to a Velocity.
func VelocityOf(v r2.Vec) Velocity {
	return Velocity{X: v.X, Y: v.Y}
}
