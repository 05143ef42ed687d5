package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/forage/components"
)

// Site is an entity's footprint: center and size (diameter).
type Site struct {
	Pos  r2.Vec
	Size float64
}

// SiteOf builds a Site from components.
func SiteOf(pos components.Position, body components.Body) Site {
	return Site{Pos: pos.Vec(), Size: body.Size}
}

// Distance returns the Euclidean distance between two sites' centers.
func Distance(a, b Site) float64 {
	return r2.Norm(r2.Sub(a.Pos, b.Pos))
}

// Overlapping reports whether two sites overlap: the distance between
// their centers is less than half the sum of their sizes.
func Overlapping(a, b Site) bool {
	return Distance(a, b) < (a.Size+b.Size)/2
}

// IsOverlapping reports whether s overlaps any of others.
// World initialization uses it for rejection sampling.
func IsOverlapping(s Site, others []Site) bool {
	for _, o := range others {
		if Overlapping(s, o) {
			return true
		}
	}
	return false
}
