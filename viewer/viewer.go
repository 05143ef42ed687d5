// Package viewer runs the graphical front end: it steps a game, draws its
// snapshots and handles user input.
package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/forage/camera"
	"github.com/pthm-cable/forage/game"
	"github.com/pthm-cable/forage/renderer"
	"github.com/pthm-cable/forage/ui"
)

const controlsLegend = "[Space] Pause  [,/.] Speed  [Arrows] Pan  [Wheel/+/-] Zoom  [Home] Reset  [Click] Select"

// Viewer owns the window-side state for one game.
type Viewer struct {
	game *game.Game

	camera    *camera.Camera
	arena     *renderer.ArenaRenderer
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	inspector *ui.Inspector
	overlays  *ui.OverlayRegistry

	screenWidth, screenHeight float32

	paused   bool
	selected uint32 // Agent ID, 0 = none
	snapshot game.Snapshot
}

// New creates a viewer for g. The raylib window must already be open.
func New(g *game.Game, screenW, screenH int32) *Viewer {
	arena := g.Arena()
	cam := camera.New(float32(screenW), float32(screenH), float32(arena.W), float32(arena.H))

	v := &Viewer{
		game:         g,
		camera:       cam,
		arena:        renderer.NewArenaRenderer(cam),
		hud:          ui.NewHUD(),
		controls:     ui.NewControlsPanel(screenW-190, 10, 180),
		inspector:    ui.NewInspector(screenW-230, 90, 220),
		overlays:     ui.NewOverlayRegistry(),
		screenWidth:  float32(screenW),
		screenHeight: float32(screenH),
	}
	v.snapshot = g.Snapshot()
	return v
}

// Update handles input and advances the simulation unless paused.
func (v *Viewer) Update() {
	v.handleInput()

	if !v.paused {
		v.game.UpdateHeadless()
	}
	v.snapshot = v.game.Snapshot()

	if v.selected != 0 {
		if _, ok := v.snapshot.AgentByID(v.selected); !ok {
			v.selected = 0
		}
	}
}

// Draw renders the arena, HUD, controls and inspector.
func (v *Viewer) Draw() {
	v.game.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	v.arena.Draw(&v.snapshot, renderer.DrawOptions{
		Sight:         v.overlays.IsEnabled(ui.OverlaySight),
		ExtendedSight: v.overlays.IsEnabled(ui.OverlayExtendedSight),
		StateLabels:   v.overlays.IsEnabled(ui.OverlayStates),
		Units:         v.overlays.IsEnabled(ui.OverlayUnits),
		Selected:      v.selected,
	})

	census := v.game.Census()
	oldest, hasOldest := v.game.Oldest()
	hud := ui.HUDData{
		Tick:       v.snapshot.Tick,
		Population: len(v.snapshot.Agents),
		States:     census.States,
		FoodUnits:  census.FoodUnits,
		Speed:      v.game.StepsPerUpdate(),
		FPS:        rl.GetFPS(),
		Paused:     v.paused,
		Oldest:     oldest,
		HasOldest:  hasOldest,
	}
	if marks := v.game.Bookmarks(); len(marks) > 0 {
		hud.Bookmark, hud.HasBookmark = marks[len(marks)-1], true
	}
	v.hud.Draw(hud)

	paused, speed := v.controls.Draw(v.paused, v.game.StepsPerUpdate())
	v.paused = paused
	v.game.SetStepsPerUpdate(speed)

	if a, ok := v.snapshot.AgentByID(v.selected); ok {
		cfg := v.game.Config()
		v.inspector.Draw(ui.InspectorData{
			Agent:     a,
			HungerMax: cfg.Agent.HungerMax,
			ThirstMax: cfg.Agent.ThirstMax,
		})
	}

	v.hud.DrawControls(int32(v.screenHeight), controlsLegend+"  "+v.overlays.Legend())

	rl.EndDrawing()
}

// Paused reports whether the simulation is paused.
func (v *Viewer) Paused() bool {
	return v.paused
}
