package game

import (
	"math/rand"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/config"
)

// Palette is the set of named colors founders are drawn from.
type Palette []config.PaletteColor

// Random returns a uniformly chosen palette color.
func (p Palette) Random(rng *rand.Rand) components.Color {
	if len(p) == 0 {
		return components.Color{R: 255, G: 255, B: 255}
	}
	c := p[rng.Intn(len(p))]
	return components.Color{R: c.R, G: c.G, B: c.B}
}

// Name returns the name of the palette entry nearest to c.
// Inherited colors are averages, so most of them match no entry exactly.
func (p Palette) Name(c components.Color) string {
	best, bestDist := "", -1
	for _, pc := range p {
		dr := int(pc.R) - int(c.R)
		dg := int(pc.G) - int(c.G)
		db := int(pc.B) - int(c.B)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = pc.Name, d
		}
	}
	return best
}
