package components

// Body holds the physical extent and appearance of an entity.
// Size is a diameter: two bodies overlap when their centers are closer
// than half the sum of their sizes.
type Body struct {
	Size  float64
	Color Color
}

// Color is an 8-bit RGB color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Average returns the component-wise average of two colors, truncated.
func (c Color) Average(o Color) Color {
	return Color{
		R: uint8((uint16(c.R) + uint16(o.R)) / 2),
		G: uint8((uint16(c.G) + uint16(o.G)) / 2),
		B: uint8((uint16(c.B) + uint16(o.B)) / 2),
	}
}

// Default resource colors.
var (
	FoodColor  = Color{R: 0, G: 200, B: 0}
	WaterColor = Color{R: 0, G: 30, B: 200}
	UnitColor  = Color{R: 255, G: 0, B: 0}
)
