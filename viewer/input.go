package viewer

import (
	"errors"
	"log/slog"
	"math"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ncruces/zenity"

	"github.com/pthm-cable/parkview/carpark"
	"github.com/pthm-cable/parkview/compass"
	"github.com/pthm-cable/parkview/config"
	"github.com/pthm-cable/parkview/geo"
	"github.com/pthm-cable/parkview/telemetry"
)

// Pixels of mouse travel before a press becomes a drag pan.
const dragThresholdPx = 5

// handleInput processes keyboard and mouse input for one frame.
func (v *Viewer) handleInput() {
	v.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}

	// Panel toggles
	if rl.IsKeyPressed(rl.KeyF1) {
		v.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyT) {
		v.tuningPanel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		v.showRose = !v.showRose
	}

	// Esc clears the selection; the window exit key is disabled at
	// startup so this does not quit.
	if rl.IsKeyPressed(rl.KeyEscape) {
		v.deselect()
	}

	if rl.IsKeyPressed(rl.KeyO) {
		v.openCarparksDialog()
	}

	v.handleOverlayKeys()
	v.handleRotationKeys()
	v.handleCameraInput()
	v.handleMouse()
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW = w
	v.screenH = h

	v.cam.Resize(w, h)
	v.layout()
}

// handleOverlayKeys checks for overlay toggle key presses.
func (v *Viewer) handleOverlayKeys() {
	for _, desc := range v.overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			v.overlays.Toggle(desc.ID)
		}
	}
}

// handleRotationKeys starts heading animations from the keyboard.
func (v *Viewer) handleRotationKeys() {
	step := float64(v.tuning.BearingStepDeg)

	if rl.IsKeyPressed(rl.KeyN) {
		v.rotateTo(0, telemetry.TriggerNorth)
	}
	if rl.IsKeyPressed(rl.KeyQ) {
		v.rotateTo(float64(v.cam.Heading)-step, telemetry.TriggerStep)
	}
	if rl.IsKeyPressed(rl.KeyE) {
		v.rotateTo(float64(v.cam.Heading)+step, telemetry.TriggerStep)
	}
	if rl.IsKeyPressed(rl.KeyB) {
		v.rotateToSelection()
	}
}

// rotateTo starts a heading animation and records the rotation event.
func (v *Viewer) rotateTo(target float64, trigger string) {
	from := compass.Normalize(float64(v.cam.Heading))
	to := compass.Normalize(target)
	delta := compass.ShortestDelta(from, to)

	v.animator.RotateToWithOptions(target, compass.Options{
		Duration: time.Duration(v.tuning.DurationMs) * time.Millisecond,
		MinDelta: float64(v.tuning.MinDeltaDeg),
	})
	v.lastDelta = delta

	ev := telemetry.RotationEvent{
		Frame:      v.frame,
		Trigger:    trigger,
		FromDeg:    from,
		ToDeg:      to,
		DeltaDeg:   delta,
		DurationMS: int64(v.tuning.DurationMs),
		Snapped:    math.Abs(delta) < float64(v.tuning.MinDeltaDeg),
	}
	slog.Debug("rotation", "event", ev)
	if v.output != nil {
		if err := v.output.WriteRotation(ev); err != nil {
			slog.Error("failed to write rotation", "error", err)
		}
	}
}

// rotateToSelection turns the view to face the selected marker.
func (v *Viewer) rotateToSelection() {
	if !v.hasSelection || !v.world.Alive(v.selected) {
		return
	}
	spot := v.spotMap.Get(v.selected)
	centerLat, centerLon := v.proj.Unproject(float64(v.cam.X), float64(v.cam.Y))
	bearing := geo.InitialBearingDeg(centerLat, centerLon, spot.Latitude, spot.Longitude)
	v.rotateTo(bearing, telemetry.TriggerBearing)
}

// handleCameraInput processes camera pan and zoom controls.
func (v *Viewer) handleCameraInput() {
	cfg := config.Cfg()

	// Pan in screen pixels; the camera converts to world meters.
	pan := float32(cfg.Camera.PanSpeed) * rl.GetFrameTime()
	var dx, dy float32
	if rl.IsKeyDown(rl.KeyRight) || rl.IsKeyDown(rl.KeyD) {
		dx += pan
	}
	if rl.IsKeyDown(rl.KeyLeft) || rl.IsKeyDown(rl.KeyA) {
		dx -= pan
	}
	if rl.IsKeyDown(rl.KeyDown) || rl.IsKeyDown(rl.KeyS) {
		dy += pan
	}
	if rl.IsKeyDown(rl.KeyUp) || rl.IsKeyDown(rl.KeyW) {
		dy -= pan
	}
	if dx != 0 || dy != 0 {
		v.cam.Pan(dx, dy)
	}

	// Zoom toward the cursor on wheel moves
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		factor := float32(math.Pow(cfg.Camera.ZoomStep, float64(wheel)))
		mouse := rl.GetMousePosition()
		v.cam.ZoomAt(factor, mouse.X, mouse.Y)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}

	// Home key recenters; heading is preserved
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}

// handleMouse implements drag-to-pan and click-to-select.
func (v *Viewer) handleMouse() {
	mouse := rl.GetMousePosition()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		v.pressPos = mouse
		v.dragging = false
		v.pressOnUI = v.overPanel(mouse.X, mouse.Y)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		// Presses on panels belong to the panel widgets, never pan.
		if v.pressOnUI {
			return
		}
		if !v.dragging {
			dx := mouse.X - v.pressPos.X
			dy := mouse.Y - v.pressPos.Y
			if dx*dx+dy*dy > dragThresholdPx*dragThresholdPx {
				v.dragging = true
			}
		}
		if v.dragging {
			delta := rl.GetMouseDelta()
			v.cam.Pan(-delta.X, -delta.Y)
		}
		return
	}

	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) && !v.dragging {
		v.handleClick(mouse.X, mouse.Y)
	}
}

// handleClick resolves a left click: the compass rose first, then
// marker picking. Clicks on open panels are ignored.
func (v *Viewer) handleClick(x, y float32) {
	if v.showRose && v.rose.Contains(x, y) {
		v.rotateTo(0, telemetry.TriggerNorth)
		return
	}
	if v.overPanel(x, y) {
		return
	}
	if entity, found := v.findMarkerAt(x, y); found {
		v.selectEntity(entity)
	} else {
		v.deselect()
	}
}

// overPanel reports whether the point falls on an open panel.
func (v *Viewer) overPanel(x, y float32) bool {
	pt := rl.Vector2{X: x, Y: y}

	if v.controls.IsVisible() && rl.CheckCollisionPointRec(pt, v.controlsRect) {
		return true
	}
	if v.tuningPanel.IsVisible() && rl.CheckCollisionPointRec(pt, v.tuningRect) {
		return true
	}
	if v.occ != nil && rl.CheckCollisionPointRec(pt, v.liveRect) {
		return true
	}
	if v.hasSelection && rl.CheckCollisionPointRec(pt, v.inspectorRect) {
		return true
	}
	return false
}

// openCarparksDialog lets the user load a different carparks CSV. The
// metered groups and live feed are kept as-is.
func (v *Viewer) openCarparksDialog() {
	path, err := zenity.SelectFile(
		zenity.Title("Open Carparks CSV"),
		zenity.FileFilters{{
			Name:     "CSV",
			Patterns: []string{"*.csv"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return
		}
		slog.Error("file dialog failed", "error", err)
		return
	}

	parks, err := carpark.LoadCSV(path)
	if err != nil {
		slog.Error("failed to load carparks", "path", path, "error", err)
		return
	}

	v.loadData(parks, v.groups, filepath.Base(path))
	slog.Info("dataset loaded", "path", path, "carparks", len(parks))
}
