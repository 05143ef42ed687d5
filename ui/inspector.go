package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/forage/game"
)

// agentSections describes the inspector layout for a game.AgentView.
var agentSections = []SectionDescriptor{
	{
		Title: "Agent",
		Fields: []FieldDescriptor{
			{Label: "ID", Widget: WidgetText, TextGetter: func(d any) string { return fmt.Sprintf("#%d", d.(InspectorData).Agent.ID) }},
			{Label: "State", Widget: WidgetText, TextGetter: func(d any) string { return d.(InspectorData).Agent.State.String() }},
			{Label: "Color", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color {
				c := d.(InspectorData).Agent.Color
				return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
			}},
			{Label: "Palette", Widget: WidgetText, TextGetter: func(d any) string { return d.(InspectorData).Agent.ColorName }},
			{Label: "Size", Widget: WidgetText, Format: "%.1f", Getter: func(d any) float32 { return float32(d.(InspectorData).Agent.Size) }},
		},
	},
	{
		Title: "Needs",
		Fields: []FieldDescriptor{
			{Label: "Hunger", Widget: WidgetNeedBar,
				Getter:    func(d any) float32 { return float32(d.(InspectorData).Agent.Hunger) },
				MaxGetter: func(d any) float32 { return float32(d.(InspectorData).HungerMax) }},
			{Label: "Thirst", Widget: WidgetNeedBar,
				Getter:    func(d any) float32 { return float32(d.(InspectorData).Agent.Thirst) },
				MaxGetter: func(d any) float32 { return float32(d.(InspectorData).ThirstMax) }},
			{Label: "Uses left", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(d.(InspectorData).Agent.LifespanUses) }},
		},
	},
	{
		Title: "Sight",
		Fields: []FieldDescriptor{
			{Label: "Radius", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(d.(InspectorData).Agent.Sight) }},
			{Label: "Extended", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(d.(InspectorData).Agent.ExtendedSight) }},
		},
	},
}

// InspectorData holds the data needed to render the inspector panel.
type InspectorData struct {
	Agent     game.AgentView
	HungerMax int
	ThirstMax int
}

// Inspector renders the selected agent panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel and returns the Y below it.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	r.DrawPanel(ins.x, ins.y, ins.width, 250)

	y := ins.y + padding
	content := ins.width - padding*2
	for _, sd := range agentSections {
		y = r.DrawSection(ins.x+padding, y, sd, data, content)
	}
	return y
}
