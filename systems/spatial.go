// Package systems provides the per-tick rules of the forager simulation.
package systems

import (
	"cmp"
	"math"
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// Candidate is an entity considered by a proximity query.
type Candidate struct {
	E   ecs.Entity
	Pos r2.Vec
}

// Hit is a candidate found within range of a query origin.
// Index is the candidate's position in the input slice.
type Hit struct {
	E     ecs.Entity
	Dist  float64
	Index int
}

// compareHits orders hits by ascending distance, then by input order.
func compareHits(a, b Hit) int {
	if c := cmp.Compare(a.Dist, b.Dist); c != 0 {
		return c
	}
	return cmp.Compare(a.Index, b.Index)
}

// FindWithin returns the candidates within radius of origin, nearest first.
// Ties keep input order. The entity self is never returned, and a negative
// radius or an empty candidate set yields an empty result.
func FindWithin(origin r2.Vec, self ecs.Entity, radius float64, candidates []Candidate) []Hit {
	return FindWithinInto(nil, origin, self, radius, candidates)
}

// FindWithinInto is FindWithin appending to dst. Reuse dst across calls to avoid allocations.
func FindWithinInto(dst []Hit, origin r2.Vec, self ecs.Entity, radius float64, candidates []Candidate) []Hit {
	dst = dst[:0]
	if !(radius >= 0) {
		return dst
	}
	for i, c := range candidates {
		if c.E == self {
			continue
		}
		d := r2.Norm(r2.Sub(c.Pos, origin))
		if d <= radius {
			dst = append(dst, Hit{E: c.E, Dist: d, Index: i})
		}
	}
	slices.SortStableFunc(dst, compareHits)
	return dst
}

// Nearest returns the first hit, if any.
func Nearest(hits []Hit) (ecs.Entity, bool) {
	if len(hits) == 0 {
		return ecs.Entity{}, false
	}
	return hits[0].E, true
}

// SpatialGrid provides neighbor lookups using a cell-based grid over a
// bounded arena. Results match FindWithin over the same candidates.
type SpatialGrid struct {
	cellSize   float64
	cols       int
	rows       int
	cells      [][]int32 // candidate indices per cell
	candidates []Candidate
}

// NewSpatialGrid creates a spatial grid covering the given arena size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 64
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]int32, cols*rows)
	for i := range cells {
		cells[i] = make([]int32, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Rebuild clears the grid and indexes the given candidates.
// The grid keeps a reference to the slice until the next Rebuild.
func (g *SpatialGrid) Rebuild(candidates []Candidate) {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.candidates = candidates
	for i, c := range candidates {
		idx := g.cellIndex(c.Pos.X, c.Pos.Y)
		g.cells[idx] = append(g.cells[idx], int32(i))
	}
}

// Len returns the number of indexed candidates.
func (g *SpatialGrid) Len() int {
	return len(g.candidates)
}

// QueryRadiusInto finds indexed candidates within radius of origin and appends them to dst.
// Returns the updated slice, sorted nearest first with ties in input order.
func (g *SpatialGrid) QueryRadiusInto(dst []Hit, origin r2.Vec, self ecs.Entity, radius float64) []Hit {
	dst = dst[:0]
	if !(radius >= 0) || len(g.candidates) == 0 {
		return dst
	}

	minCol, minRow := g.cellCoords(origin.X-radius, origin.Y-radius)
	maxCol, maxRow := g.cellCoords(origin.X+radius, origin.Y+radius)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, i := range g.cells[row*g.cols+col] {
				c := g.candidates[i]
				if c.E == self {
					continue
				}
				d := r2.Norm(r2.Sub(c.Pos, origin))
				if d <= radius {
					dst = append(dst, Hit{E: c.E, Dist: d, Index: int(i)})
				}
			}
		}
	}

	// Cell traversal order differs from input order; the index tie-break restores it.
	slices.SortFunc(dst, compareHits)
	return dst
}

// cellCoords returns the clamped column and row for a position.
func (g *SpatialGrid) cellCoords(x, y float64) (col, row int) {
	// Clamp before converting so infinite radii stay in range
	fc := math.Max(0, math.Min(math.Floor(x/g.cellSize), float64(g.cols-1)))
	fr := math.Max(0, math.Min(math.Floor(y/g.cellSize), float64(g.rows-1)))
	return int(fc), int(fr)
}

// cellIndex returns the flat index for an arena position.
func (g *SpatialGrid) cellIndex(x, y float64) int {
	col, row := g.cellCoords(x, y)
	return row*g.cols + col
}
