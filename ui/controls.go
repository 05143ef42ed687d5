package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxSpeed is the largest number of ticks per frame the speed slider offers.
const MaxSpeed = 20

// ControlsPanel renders the pause button and speed slider.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Draw renders the controls and returns the updated pause state and speed.
func (c *ControlsPanel) Draw(paused bool, speed int) (bool, int) {
	r := c.renderer
	padding := r.Theme.Padding
	height := int32(70)
	r.DrawPanel(c.x, c.y, c.width, height)

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	inner := float32(c.width - padding*2)

	label := "Pause"
	if paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: inner, Height: 22}, label) {
		paused = !paused
	}

	y += 30
	value := gui.SliderBar(
		rl.Rectangle{X: x + 30, Y: y, Width: inner - 70, Height: 18},
		"1x", fmt.Sprintf("%dx", MaxSpeed),
		float32(speed), 1, MaxSpeed,
	)
	speed = clampSpeed(int(value + 0.5))

	return paused, speed
}

func clampSpeed(v int) int {
	return max(1, min(v, MaxSpeed))
}
