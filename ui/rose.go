package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// cardinalBearings are the tick positions on the rose, clockwise from north.
var cardinalBearings = [4]float64{0, 90, 180, 270}

// Rose renders a compass rose reflecting the camera heading. The needle
// points at world north, so it stays fixed relative to the map while the
// view rotates. Clicking the rose is the viewer's shortcut back to
// north-up; Contains supports that hit test.
type Rose struct {
	renderer *Renderer
	cx, cy   int32
	radius   float32
}

// NewRose creates a compass rose centered at the given screen position.
func NewRose(cx, cy int32, radius float32) *Rose {
	return &Rose{
		renderer: NewRenderer(),
		cx:       cx,
		cy:       cy,
		radius:   radius,
	}
}

// SetPosition updates the rose center.
func (ro *Rose) SetPosition(cx, cy int32) {
	ro.cx = cx
	ro.cy = cy
}

// Contains reports whether a screen point lies on the rose disc.
func (ro *Rose) Contains(mx, my float32) bool {
	dx := mx - float32(ro.cx)
	dy := my - float32(ro.cy)
	return dx*dx+dy*dy <= ro.radius*ro.radius
}

// Draw renders the rose for the given camera heading in degrees.
func (ro *Rose) Draw(headingDeg float64, animating bool) {
	r := ro.renderer
	cx := float32(ro.cx)
	cy := float32(ro.cy)

	rl.DrawCircle(ro.cx, ro.cy, ro.radius, r.Theme.PanelBg)
	rl.DrawCircleLines(ro.cx, ro.cy, ro.radius, r.Theme.PanelBorder)

	// Cardinal ticks; a bearing b appears at screen direction
	// (sin(b-heading), -cos(b-heading)).
	for _, b := range cardinalBearings {
		dx, dy := bearingDir(b, headingDeg)

		tickColor := rl.Gray
		if b == 0 {
			tickColor = rl.Red
		}
		rl.DrawLineEx(
			rl.Vector2{X: cx + dx*(ro.radius-6), Y: cy + dy*(ro.radius-6)},
			rl.Vector2{X: cx + dx*ro.radius, Y: cy + dy*ro.radius},
			2, tickColor,
		)
	}

	// Needle: red half toward north, gray tail toward south.
	nx, ny := bearingDir(0, headingDeg)
	needleLen := ro.radius - 10

	needleColor := rl.Red
	if animating {
		needleColor = SelectionColor
	}
	rl.DrawLineEx(
		rl.Vector2{X: cx, Y: cy},
		rl.Vector2{X: cx + nx*needleLen, Y: cy + ny*needleLen},
		3, needleColor,
	)
	rl.DrawLineEx(
		rl.Vector2{X: cx, Y: cy},
		rl.Vector2{X: cx - nx*needleLen, Y: cy - ny*needleLen},
		3, rl.Gray,
	)
	rl.DrawCircle(ro.cx, ro.cy, 3, rl.White)

	// North label just outside the disc
	labelX := cx + nx*(ro.radius+10)
	labelY := cy + ny*(ro.radius+10)
	w := rl.MeasureText("N", r.Theme.FontSize)
	rl.DrawText("N", int32(labelX)-w/2, int32(labelY)-r.Theme.FontSize/2, r.Theme.FontSize, rl.White)
}

// bearingDir returns the unit screen direction at which a compass
// bearing appears for the given camera heading.
func bearingDir(bearingDeg, headingDeg float64) (float32, float32) {
	s, c := math.Sincos((bearingDeg - headingDeg) * math.Pi / 180)
	return float32(s), float32(-c)
}
