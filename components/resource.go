package components

// ForageUnit is a single consumable sub-resource attached to a food-source.
// Offsets are relative to the food-source center.
type ForageUnit struct {
	OffsetX, OffsetY float64
}

// Food is a food-source holding a bounded pool of forage units.
type Food struct {
	Units []ForageUnit
	Cap   int
}

// Available reports whether at least one forage unit is left.
func (f *Food) Available() bool {
	return len(f.Units) > 0
}

// Full reports whether the unit pool is at its cap.
func (f *Food) Full() bool {
	return len(f.Units) >= f.Cap
}

// Water is a water-source. Drinking never depletes it.
type Water struct{}
