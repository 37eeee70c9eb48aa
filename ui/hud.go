package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/parkview/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Carparks   int
	Groups     int
	Districts  int
	HeadingDeg float64
	Zoom       float32
	FPS        int32
	Animating  bool
	Paused     bool
	Source     string
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	// Title
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	// Dataset counts
	rl.DrawText(
		fmt.Sprintf("Carparks: %d | Street groups: %d | Districts: %d", data.Carparks, data.Groups, data.Districts),
		10, 35, 16, rl.LightGray,
	)

	// View info
	rl.DrawText(
		fmt.Sprintf("Heading: %05.1f deg | Zoom: %.2fx | FPS: %d", data.HeadingDeg, data.Zoom, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	// Status
	if data.Animating {
		rl.DrawText("Rotating", 10, 75, 16, rl.Yellow)
	} else if data.Paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Yellow)
	}

	if data.Source != "" {
		rl.DrawText(data.Source, 10, 95, 12, rl.Gray)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// phaseOrder fixes the display order of frame phases in the perf panel.
var phaseOrder = []string{
	telemetry.PhaseInput,
	telemetry.PhaseAnimate,
	telemetry.PhaseMarkers,
	telemetry.PhaseRender,
	telemetry.PhaseUI,
}

// PerfPanel renders the frame performance panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.FrameStats) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Avg: %s  FPS: %.0f", stats.AvgFrameDuration.Round(time.Microsecond), stats.FPS),
		x, y, 14, rl.Yellow,
	)
	y += 16

	for _, phase := range phaseOrder {
		avg := stats.PhaseAvg[phase]
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-8s %8s %5.1f%%", phase, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
