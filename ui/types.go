// Package ui draws the heads-up display, controls and agent inspector.
// Inspector rows are described by metadata rather than hard-coded layouts.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetNeedBar                       // Current/max bar with color thresholds
	WidgetColorSwatch                   // Color preview square
	WidgetSpacer                        // Vertical spacing
)

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	Label       string
	Widget      WidgetType
	Format      string             // Printf format for numeric text
	Visible     func(any) bool     // nil = always visible
	Getter      func(any) float32  // Numeric value
	MaxGetter   func(any) float32  // Upper bound for need bars
	TextGetter  func(any) string   // Text value, preferred over Getter
	ColorGetter func(any) rl.Color // Swatch color
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	Title   string
	Fields  []FieldDescriptor
	Visible func(any) bool
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium:  rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     70,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
