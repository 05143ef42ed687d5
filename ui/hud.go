package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/forage/components"
	"github.com/pthm-cable/forage/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Tick        int32
	Population  int
	States      [components.NumStates]int
	FoodUnits   int
	Speed       int
	FPS         int32
	Paused      bool
	Oldest      telemetry.LifetimeStats
	HasOldest   bool
	Bookmark    telemetry.Bookmark // Most recent bookmark
	HasBookmark bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText("Forage", 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Agents: %d | Forage units: %d", data.Population, data.FoodUnits),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Idle %d  Hungry %d  Thirsty %d  Both %d",
			data.States[components.StateIdle], data.States[components.StateHungry],
			data.States[components.StateThirsty], data.States[components.StateBoth]),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS),
		10, 75, 16, rl.LightGray,
	)

	if data.HasOldest {
		rl.DrawText(
			fmt.Sprintf("Oldest: #%d lived %d ticks (%s)", data.Oldest.ID, data.Oldest.AgeTicks, data.Oldest.Cause),
			10, 95, 14, rl.Gray,
		)
	}

	if data.HasBookmark {
		rl.DrawText(
			fmt.Sprintf("Tick %d: %s", data.Bookmark.Tick, data.Bookmark.Description),
			10, 135, 14, rl.SkyBlue,
		)
	}

	if data.Paused {
		rl.DrawText("PAUSED", 10, 115, 16, rl.Yellow)
	} else if data.Population == 0 {
		rl.DrawText("EXTINCT", 10, 115, 16, rl.Red)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
