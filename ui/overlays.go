package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlaySight         OverlayID = "sight"
	OverlayExtendedSight OverlayID = "extended_sight"
	OverlayStates        OverlayID = "states"
	OverlayUnits         OverlayID = "units"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32  // Keyboard key to toggle (0 = no key)
	KeyLabel string // Key label for display
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the default overlays.
// Forage units are shown from the start.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{enabled: make(map[OverlayID]bool)}
	reg.Register(OverlayDescriptor{ID: OverlaySight, Name: "Sight", Key: rl.KeyS, KeyLabel: "S"})
	reg.Register(OverlayDescriptor{ID: OverlayExtendedSight, Name: "Extended Sight", Key: rl.KeyE, KeyLabel: "E"})
	reg.Register(OverlayDescriptor{ID: OverlayStates, Name: "State Labels", Key: rl.KeyL, KeyLabel: "L"})
	reg.Register(OverlayDescriptor{ID: OverlayUnits, Name: "Forage Units", Key: rl.KeyU, KeyLabel: "U"})
	reg.enabled[OverlayUnits] = true
	return reg
}

// Register adds an overlay to the registry, initially disabled.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}

// Legend returns a one-line key legend for the registered overlays.
func (r *OverlayRegistry) Legend() string {
	s := ""
	for i, desc := range r.descriptors {
		if i > 0 {
			s += "  "
		}
		s += "[" + desc.KeyLabel + "] " + desc.Name
	}
	return s
}
