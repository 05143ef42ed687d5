// Package renderer draws world snapshots with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/forage/camera"
	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/game"
)

// DrawOptions selects the optional layers drawn over the arena.
type DrawOptions struct {
	Sight         bool
	ExtendedSight bool
	StateLabels   bool
	Units         bool
	Selected      uint32 // Agent ID to highlight, 0 = none
}

// Palette of fixed colors used by the arena renderer.
var (
	arenaFloor  = rl.Color{R: 18, G: 22, B: 26, A: 255}
	arenaBorder = rl.Color{R: 70, G: 80, B: 90, A: 255}
	sightColor  = rl.Color{R: 255, G: 255, B: 255, A: 60}
	extColor    = rl.Color{R: 255, G: 255, B: 255, A: 25}
	selectColor = rl.Yellow
)

// stateColors tints state labels.
var stateColors = [components.NumStates]rl.Color{
	components.StateIdle:    rl.LightGray,
	components.StateHungry:  rl.Orange,
	components.StateThirsty: rl.SkyBlue,
	components.StateBoth:    rl.Red,
	components.StateDead:    rl.DarkGray,
}

// ArenaRenderer draws agents and resources through a camera.
type ArenaRenderer struct {
	cam *camera.Camera
}

// NewArenaRenderer creates a renderer bound to a camera.
func NewArenaRenderer(cam *camera.Camera) *ArenaRenderer {
	return &ArenaRenderer{cam: cam}
}

// Draw renders one snapshot. Must be called between BeginDrawing and EndDrawing.
func (r *ArenaRenderer) Draw(s *game.Snapshot, opts DrawOptions) {
	r.drawFloor(s)

	for _, w := range s.Waters {
		r.circle(w.X, w.Y, w.Size/2, toRL(components.WaterColor))
	}
	for _, f := range s.Foods {
		r.circle(f.X, f.Y, f.Size/2, toRL(components.FoodColor))
		if opts.Units {
			for _, u := range f.Units {
				r.circle(u.X, u.Y, 2, toRL(components.UnitColor))
			}
		}
	}

	for i := range s.Agents {
		a := &s.Agents[i]
		if !r.cam.IsVisible(float32(a.X), float32(a.Y), float32(a.ExtendedSight)) {
			continue
		}
		if opts.ExtendedSight {
			r.ring(a.X, a.Y, a.ExtendedSight, extColor)
		}
		if opts.Sight {
			r.ring(a.X, a.Y, a.Sight, sightColor)
		}
		r.circle(a.X, a.Y, a.Size/2, toRL(a.Color))
		if a.ID == opts.Selected {
			r.ring(a.X, a.Y, a.Size/2+3, selectColor)
		}
		if opts.StateLabels {
			sx, sy := r.cam.WorldToScreen(float32(a.X), float32(a.Y))
			label := a.State.String()
			rl.DrawText(label, int32(sx)-rl.MeasureText(label, 10)/2, int32(sy)-int32(a.Size/2*float64(r.cam.Zoom))-12, 10, stateColors[a.State])
		}
	}
}

func (r *ArenaRenderer) drawFloor(s *game.Snapshot) {
	x0, y0 := r.cam.WorldToScreen(0, 0)
	x1, y1 := r.cam.WorldToScreen(float32(s.ArenaW), float32(s.ArenaH))
	rect := rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
	rl.DrawRectangleRec(rect, arenaFloor)
	rl.DrawRectangleLinesEx(rect, 1, arenaBorder)
}

func (r *ArenaRenderer) circle(x, y, radius float64, color rl.Color) {
	sx, sy := r.cam.WorldToScreen(float32(x), float32(y))
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, float32(radius)*r.cam.Zoom, color)
}

func (r *ArenaRenderer) ring(x, y, radius float64, color rl.Color) {
	sx, sy := r.cam.WorldToScreen(float32(x), float32(y))
	rl.DrawCircleLines(int32(sx), int32(sy), float32(radius)*r.cam.Zoom, color)
}

func toRL(c components.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}
