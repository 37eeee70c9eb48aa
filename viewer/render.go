package viewer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/parkview/components"
	"github.com/pthm-cable/parkview/coverage"
	"github.com/pthm-cable/parkview/ui"
)

// Map backdrop and frame colors.
var (
	mapBackground = rl.Color{R: 16, G: 18, B: 24, A: 255}
	worldFrame    = rl.Color{R: 60, G: 70, B: 85, A: 255}

	// Markers without live data when the vacancy overlay is active.
	untrackedDim = rl.Color{R: 85, G: 90, B: 100, A: 255}
)

// Labels appear once a meter spans enough pixels to keep names apart.
const labelMinZoom = 0.35

// controlsLegend is the key help line at the bottom of the screen.
const controlsLegend = "WASD/drag pan | wheel zoom | Q/E rotate | N north | B face selection | click select | O open CSV | T tuning | F1 overlays | C rose | space pause"

// drawWorldFrame outlines the dataset extent, rotated with the view.
func (v *Viewer) drawWorldFrame() {
	corners := [4][2]float32{
		{0, 0},
		{v.cam.WorldW, 0},
		{v.cam.WorldW, v.cam.WorldH},
		{0, v.cam.WorldH},
	}
	var pts [4]rl.Vector2
	for i, c := range corners {
		x, y := v.cam.WorldToScreen(c[0], c[1])
		pts[i] = rl.Vector2{X: x, Y: y}
	}
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		rl.DrawLineEx(pts[i], pts[j], 1, worldFrame)
	}
}

// drawMarkers renders every visible marker with the active color mode.
// Markers keep a constant screen size across zoom levels.
func (v *Viewer) drawMarkers() {
	districtMode := v.overlays.IsEnabled(ui.OverlayDistrictColors)
	liveMode := v.overlays.IsEnabled(ui.OverlayLiveStatus)
	rings := v.overlays.IsEnabled(ui.OverlayCoverageRings)
	labels := v.overlays.IsEnabled(ui.OverlayLabels) && v.cam.Zoom >= labelMinZoom

	query := v.markerFilter.Query()
	for query.Next() {
		pos, spot, marker, live, _ := query.Get()

		if !v.cam.IsVisible(pos.X, pos.Y, marker.Radius/v.cam.Zoom) {
			continue
		}
		sx, sy := v.cam.WorldToScreen(pos.X, pos.Y)

		color := v.markerColor(spot, live, districtMode, liveMode)
		rl.DrawCircle(int32(sx), int32(sy), marker.Radius, color)

		if rings && spot.Kind == components.KindMeteredGroup && spot.Spaces > 0 {
			pct := float64(live.Tracked) / float64(spot.Spaces) * 100
			rl.DrawCircleLines(int32(sx), int32(sy), marker.Radius+3, coverageColor(pct))
		}

		if labels && spot.Name != "" {
			rl.DrawText(spot.Name, int32(sx)+int32(marker.Radius)+4, int32(sy)-5, 10, rl.LightGray)
		}
	}
}

// markerColor picks the fill for a marker under the active overlay.
func (v *Viewer) markerColor(spot *components.Spot, live *components.LiveStatus, districtMode, liveMode bool) rl.Color {
	if liveMode {
		if live.Tracked == 0 {
			return untrackedDim
		}
		return vacancyColor(float32(live.Vacant) / float32(live.Tracked))
	}
	if districtMode {
		idx, found := v.districtIndex[spot.District]
		if !found {
			idx = -1
		}
		return ui.DistrictColor(idx)
	}
	if spot.Kind == components.KindMeteredGroup {
		return ui.GroupColor
	}
	return ui.CarparkColor
}

// vacancyColor blends occupied red toward vacant green.
func vacancyColor(vacantRatio float32) rl.Color {
	return lerpColor(ui.OccupiedColor, ui.VacantColor, vacantRatio)
}

// lerpColor blends a toward b by t in [0, 1].
func lerpColor(a, b rl.Color, t float32) rl.Color {
	t = min(max(t, 0), 1)
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}

// coverageColor maps a live-data coverage percentage to the report
// bands.
func coverageColor(pct float64) rl.Color {
	switch {
	case pct >= coverage.BandFullPct:
		return ui.VacantColor
	case pct >= coverage.BandHighPct:
		return rl.Gold
	default:
		return ui.OccupiedColor
	}
}

// drawSelection rings the selected marker with a pulsing highlight.
func (v *Viewer) drawSelection() {
	if !v.hasSelection {
		return
	}
	if !v.world.Alive(v.selected) {
		v.hasSelection = false
		return
	}

	pos := v.posMap.Get(v.selected)
	marker := v.markerMap.Get(v.selected)
	pulse := v.pulseMap.Get(v.selected)

	sx, sy := v.cam.WorldToScreen(pos.X, pos.Y)

	wave := float32(math.Sin(float64(pulse.Phase)*4))*0.3 + 0.7
	radius := marker.Radius + 4 + 2*wave
	color := ui.SelectionColor
	color.A = uint8(255 * wave)

	rl.DrawCircleLines(int32(sx), int32(sy), radius, color)
	rl.DrawCircleLines(int32(sx), int32(sy), radius+1, rl.Color{R: color.R, G: color.G, B: color.B, A: color.A / 2})
}

// drawPanels renders the HUD and any open panels.
func (v *Viewer) drawPanels() {
	v.hud.Draw(ui.HUDData{
		Title:      "Parkview",
		Carparks:   len(v.dataset.Carparks),
		Groups:     len(v.groups),
		Districts:  len(v.districtIndex),
		HeadingDeg: float64(v.cam.Heading),
		Zoom:       v.cam.Zoom,
		FPS:        rl.GetFPS(),
		Animating:  v.animator.Animating(),
		Paused:     v.paused,
		Source:     v.source,
	})
	v.hud.DrawControls(int32(v.screenW), int32(v.screenH), controlsLegend)

	v.controls.Draw(v.overlays)
	v.tuningPanel.Draw(&v.tuning, v.tuningDefaults, float32(v.lastDelta))

	if v.occ != nil {
		v.livePanel.Draw(v.liveTotals)
	}
	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perfPanel.Draw(v.perf.Stats())
	}
	if data, ok := v.selectedSpotData(); ok {
		v.inspector.Draw(data)
	}
	if v.showRose {
		v.rose.Draw(float64(v.cam.Heading), v.animator.Animating())
	}
}
