// Package ui provides the viewer's panels and widgets. Panels that show
// structured data (the spot inspector) are descriptor-driven: fields are
// defined through metadata so layouts can evolve alongside the data they
// display.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar [0, 1]
	WidgetColorSwatch                   // Color preview square
	WidgetSpacer                        // Vertical spacing
)

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	Label       string             // Display label
	Widget      WidgetType         // How to render
	Format      string             // Printf format for numeric text (e.g., "%.2f")
	Visible     func(any) bool     // Optional visibility check (nil = always visible)
	Getter      func(any) float32  // Value extractor (for numeric fields)
	TextGetter  func(any) string   // Value extractor (for text fields)
	ColorGetter func(any) rl.Color // Color extractor (for color swatches)
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	Title   string            // Section header text
	Fields  []FieldDescriptor // Fields in this section
	Visible func(any) bool    // Optional visibility check for entire section
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg         rl.Color
	PanelBorder     rl.Color
	SectionHeader   rl.Color
	LabelColor      rl.Color
	ValueColor      rl.Color
	BarBg           rl.Color
	BarFill         rl.Color
	BarFillLow      rl.Color
	BarFillMedium   rl.Color
	BarFillHigh     rl.Color
	BarFillNegative rl.Color
	BarFillPositive rl.Color
	Padding         int32
	LineHeight      int32
	LabelWidth      int32
	BarHeight       int32
	FontSize        int32
	HeaderFontSize  int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:         rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:     rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:   rl.Yellow,
		LabelColor:      rl.LightGray,
		ValueColor:      rl.LightGray,
		BarBg:           rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:         rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillLow:      rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium:   rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:     rl.Color{R: 100, G: 200, B: 100, A: 255},
		BarFillNegative: rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillPositive: rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:         10,
		LineHeight:      16,
		LabelWidth:      70,
		BarHeight:       12,
		FontSize:        12,
		HeaderFontSize:  14,
	}
}

// Marker colors shared by the map renderer and the panels.
var (
	CarparkColor   = rl.Color{R: 90, G: 160, B: 235, A: 255}  // off-street carparks
	GroupColor     = rl.Color{R: 235, G: 160, B: 70, A: 255}  // metered street groups
	SelectionColor = rl.Color{R: 255, G: 240, B: 120, A: 255} // selection ring
	VacantColor    = rl.Color{R: 90, G: 210, B: 110, A: 255}  // live feed: spaces free
	OccupiedColor  = rl.Color{R: 220, G: 80, B: 80, A: 255}   // live feed: all taken
)

// districtPalette colors markers when the district overlay is active.
// Hong Kong has 18 districts; the palette cycles if a dataset has more.
var districtPalette = []rl.Color{
	{R: 230, G: 110, B: 100, A: 255},
	{R: 100, G: 180, B: 230, A: 255},
	{R: 150, G: 210, B: 110, A: 255},
	{R: 230, G: 180, B: 90, A: 255},
	{R: 180, G: 130, B: 220, A: 255},
	{R: 100, G: 210, B: 190, A: 255},
	{R: 230, G: 140, B: 190, A: 255},
	{R: 200, G: 200, B: 110, A: 255},
	{R: 130, G: 150, B: 230, A: 255},
	{R: 180, G: 220, B: 160, A: 255},
	{R: 220, G: 120, B: 140, A: 255},
	{R: 110, G: 190, B: 140, A: 255},
	{R: 190, G: 160, B: 100, A: 255},
	{R: 140, G: 200, B: 220, A: 255},
	{R: 210, G: 170, B: 210, A: 255},
	{R: 160, G: 160, B: 160, A: 255},
	{R: 230, G: 200, B: 150, A: 255},
	{R: 120, G: 170, B: 180, A: 255},
}

// DistrictColor returns a stable color for a district index.
func DistrictColor(index int) rl.Color {
	if index < 0 {
		return rl.Gray
	}
	return districtPalette[index%len(districtPalette)]
}
