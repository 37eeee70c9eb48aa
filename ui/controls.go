package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the overlay toggle list.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  false,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	// Calculate panel height based on content
	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight // Extra for title

	// Draw panel background
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding

	// Title
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	// Draw overlays by category
	for _, category := range categories {
		// Category header
		catLabel := categoryLabel(category)
		rl.DrawText(catLabel, c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		// Overlays in this category
		for _, desc := range overlays.ByCategory(category) {
			enabled := overlays.IsEnabled(desc.ID)
			c.drawToggle(c.x+padding, y, desc, enabled, c.width-padding*2)
			y += lineHeight
		}

		y += 4 // Gap between categories
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	// Status indicator
	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	// Name
	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	// Key binding (right aligned)
	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "markers":
		return "Markers"
	case "map":
		return "Map"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

// Tuning holds the live-adjustable rotation parameters.
type Tuning struct {
	DurationMs     float32
	MinDeltaDeg    float32
	BearingStepDeg float32
}

// TuningPanel renders the rotation tuning panel with interactive sliders.
type TuningPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewTuningPanel creates a new tuning panel.
func NewTuningPanel(x, y, width int32) *TuningPanel {
	return &TuningPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  false,
	}
}

// SetPosition updates the panel position.
func (p *TuningPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// IsVisible returns whether the panel is shown.
func (p *TuningPanel) IsVisible() bool {
	return p.visible
}

// Toggle switches panel visibility.
func (p *TuningPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Draw renders the sliders and applies edits to t in place. The last
// rotation's signed delta is shown as a diagnostic at the bottom.
func (p *TuningPanel) Draw(t *Tuning, defaults Tuning, lastDeltaDeg float32) int32 {
	if !p.visible {
		return p.y
	}

	r := p.renderer
	padding := r.Theme.Padding
	panelHeight := int32(238)

	r.DrawPanel(p.x, p.y, p.width, panelHeight)

	x := p.x + padding
	y := p.y + padding
	sliderWidth := float32(p.width - padding*2 - 50)

	rl.DrawText("Rotation Tuning", x, y, 16, rl.White)
	y += 24

	t.DurationMs = p.slider(x, &y, "Duration (ms)", t.DurationMs, 50, 1000, "%.0f", sliderWidth)
	t.MinDeltaDeg = p.slider(x, &y, "Snap below (deg)", t.MinDeltaDeg, 0, 5, "%.1f", sliderWidth)
	t.BearingStepDeg = p.slider(x, &y, "Step (deg)", t.BearingStepDeg, 5, 180, "%.0f", sliderWidth)

	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: 90, Height: 24}, "Reset") {
		*t = defaults
	}
	y += 34

	y = r.DrawCenteredBar(x, y, "Last turn", lastDeltaDeg, 180, p.width-padding*2)

	return y
}

// slider draws one labeled slider row and returns the edited value.
func (p *TuningPanel) slider(x int32, y *int32, label string, value, lo, hi float32, format string, width float32) float32 {
	r := p.renderer

	rl.DrawText(label, x, *y, r.Theme.FontSize, r.Theme.LabelColor)
	*y += 16

	next := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(*y), Width: width, Height: 18},
		"", "",
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, next), x+int32(width)+8, *y+3, r.Theme.FontSize, r.Theme.ValueColor)
	*y += 28

	return next
}

// LiveData holds the live occupancy summary for the feed panel.
type LiveData struct {
	TrackedSpaces int
	VacantSpaces  int
	CoveragePct   float64
}

// LivePanel renders live feed statistics.
type LivePanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewLivePanel creates a new live feed panel.
func NewLivePanel(x, y, width int32) *LivePanel {
	return &LivePanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (q *LivePanel) SetPosition(x, y int32) {
	q.x = x
	q.y = y
}

// Draw renders the live feed panel.
func (q *LivePanel) Draw(data LiveData) int32 {
	r := q.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	panelHeight := lineHeight*5 + padding*2

	r.DrawPanel(q.x, q.y, q.width, panelHeight)

	y := q.y + padding

	// Title
	rl.DrawText("Live Feed", q.x+padding, y, 14, rl.White)
	y += lineHeight + 2

	y = r.DrawCountBar(q.x+padding, y, "Vacant", data.VacantSpaces, data.TrackedSpaces, q.width-padding*2)
	y = r.DrawLabelValue(q.x+padding, y, "Tracked", fmt.Sprintf("%d spaces", data.TrackedSpaces), q.width-padding*2)
	y = r.DrawLabelValue(q.x+padding, y, "Coverage", fmt.Sprintf("%.1f%%", data.CoveragePct), q.width-padding*2)

	return y
}
