// Package viewer runs the interactive map session. It owns the ECS
// world of markers, the camera with its heading animator, and the
// panel layout around the map.
package viewer

import (
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/parkview/camera"
	"github.com/pthm-cable/parkview/carpark"
	"github.com/pthm-cable/parkview/compass"
	"github.com/pthm-cable/parkview/components"
	"github.com/pthm-cable/parkview/config"
	"github.com/pthm-cable/parkview/geo"
	"github.com/pthm-cable/parkview/telemetry"
	"github.com/pthm-cable/parkview/ui"
)

// Options configures a new viewer session.
type Options struct {
	Carparks []carpark.Carpark
	Groups   []carpark.Group

	// Occupancy is the live feed snapshot. Nil disables the live
	// panels and overlays degrade to untracked.
	Occupancy *carpark.OccupancySet

	// Source is the display name of the loaded carpark dataset.
	Source string

	// Output receives rotation and frame telemetry. May be nil.
	Output *telemetry.OutputManager

	// LogStats mirrors frame stats to the log at every window
	// rollover.
	LogStats bool
}

// Viewer is the interactive map session.
type Viewer struct {
	world *ecs.World

	markerMapper ecs.Map5[
		components.Position,
		components.Spot,
		components.Marker,
		components.LiveStatus,
		components.Pulse,
	]
	markerFilter *ecs.Filter5[
		components.Position,
		components.Spot,
		components.Marker,
		components.LiveStatus,
		components.Pulse,
	]

	// Per-component accessors for selection lookups
	posMap    ecs.Map1[components.Position]
	spotMap   ecs.Map1[components.Spot]
	markerMap ecs.Map1[components.Marker]
	liveMap   ecs.Map1[components.LiveStatus]
	pulseMap  ecs.Map1[components.Pulse]

	dataset *carpark.Dataset
	groups  []carpark.Group
	occ     *carpark.OccupancySet
	source  string

	proj     *geo.Projector
	cam      *camera.Camera
	surface  *mapSurface
	frames   *compass.FrameQueue
	animator *compass.Animator

	hud         *ui.HUD
	overlays    *ui.OverlayRegistry
	controls    *ui.ControlsPanel
	tuningPanel *ui.TuningPanel
	livePanel   *ui.LivePanel
	perfPanel   *ui.PerfPanel
	inspector   *ui.Inspector
	rose        *ui.Rose

	// Live-adjustable rotation parameters, seeded from config. Every
	// rotation reads these so slider edits apply immediately.
	tuning         ui.Tuning
	tuningDefaults ui.Tuning

	// Signed degrees of the last rotation command, for the tuning
	// panel diagnostic.
	lastDelta float64

	liveTotals ui.LiveData

	selected     ecs.Entity
	hasSelection bool

	// District name to palette index, stable for a loaded dataset.
	districtIndex map[string]int

	paused   bool
	showRose bool
	frame    int64

	perf     *telemetry.PerfCollector
	output   *telemetry.OutputManager
	logStats bool

	// Mouse drag state
	pressPos  rl.Vector2
	pressOnUI bool
	dragging  bool

	// Panel hit areas, recomputed by layout
	controlsRect  rl.Rectangle
	tuningRect    rl.Rectangle
	liveRect      rl.Rectangle
	inspectorRect rl.Rectangle

	screenW, screenH float32
}

// New builds a viewer from loaded datasets. Call after rl.InitWindow.
func New(opts Options) *Viewer {
	cfg := config.Cfg()

	v := &Viewer{
		occ:      opts.Occupancy,
		output:   opts.Output,
		logStats: opts.LogStats,
		screenW:  cfg.Derived.ScreenW32,
		screenH:  cfg.Derived.ScreenH32,
		showRose: true,

		hud:      ui.NewHUD(),
		overlays: ui.NewOverlayRegistry(),

		perf: telemetry.NewPerfCollector(cfg.Telemetry.FramesWindow),

		tuning: ui.Tuning{
			DurationMs:     float32(cfg.Animation.DurationMs),
			MinDeltaDeg:    float32(cfg.Animation.MinDeltaDeg),
			BearingStepDeg: float32(cfg.Camera.BearingStepDeg),
		},
	}
	v.tuningDefaults = v.tuning

	v.frames = compass.NewFrameQueue()
	v.surface = &mapSurface{}
	v.animator = compass.NewAnimator(v.surface, v.frames, compass.Options{
		Duration: cfg.Derived.AnimDuration,
		MinDelta: cfg.Animation.MinDeltaDeg,
	})

	v.controls = ui.NewControlsPanel(10, 125, 250)
	v.tuningPanel = ui.NewTuningPanel(10, int32(v.screenH)-300, 280)
	v.livePanel = ui.NewLivePanel(int32(v.screenW)-290, int32(v.screenH)-150, 280)
	v.perfPanel = ui.NewPerfPanel(int32(v.screenW)-250, 10)
	v.inspector = ui.NewInspector(int32(v.screenW)-290, 150, 280)
	v.rose = ui.NewRose(int32(v.screenW)-65, int32(v.screenH)-210, 42)
	v.layout()

	v.loadData(opts.Carparks, opts.Groups, opts.Source)

	return v
}

// layout repositions the panels for the current screen size.
func (v *Viewer) layout() {
	w := int32(v.screenW)
	h := int32(v.screenH)

	v.tuningPanel.SetPosition(10, h-300)
	v.livePanel.SetPosition(w-290, h-150)
	v.perfPanel.SetPosition(w-250, 10)
	v.inspector.SetPosition(w-290, 150)
	v.rose.SetPosition(w-65, h-210)

	// Hit rects use fixed height estimates; panels draw their own
	// exact extents.
	v.controlsRect = rl.Rectangle{X: 10, Y: 125, Width: 250, Height: 270}
	v.tuningRect = rl.Rectangle{X: 10, Y: float32(h - 300), Width: 280, Height: 238}
	v.liveRect = rl.Rectangle{X: float32(w - 290), Y: float32(h - 150), Width: 280, Height: 110}
	v.inspectorRect = rl.Rectangle{X: float32(w - 290), Y: 150, Width: 280, Height: 300}
}

// Update advances one frame: input, heading animation, marker state.
func (v *Viewer) Update() {
	v.perf.StartFrame()

	v.perf.StartPhase(telemetry.PhaseInput)
	v.handleInput()

	v.perf.StartPhase(telemetry.PhaseAnimate)
	v.frames.Run(time.Now())

	v.perf.StartPhase(telemetry.PhaseMarkers)
	v.updateMarkers()
}

// Draw renders the frame. Timing phases continue from Update so the
// frame stats cover the whole frame.
func (v *Viewer) Draw() {
	v.perf.StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	rl.ClearBackground(mapBackground)

	v.drawWorldFrame()
	v.drawMarkers()
	v.drawSelection()

	v.perf.StartPhase(telemetry.PhaseUI)
	v.drawPanels()

	rl.EndDrawing()
	v.perf.EndFrame()

	v.frame++
	if window := config.Cfg().Telemetry.FramesWindow; window > 0 && v.frame%int64(window) == 0 {
		v.flushFrameStats()
	}
}

// flushFrameStats writes the rolling frame stats at a window boundary.
func (v *Viewer) flushFrameStats() {
	stats := v.perf.Stats()

	if v.logStats {
		stats.LogStats()
	}
	if v.output != nil {
		if err := v.output.WriteFrames(stats, v.frame); err != nil {
			slog.Error("failed to write frame stats", "error", err)
		}
	}
}

// Unload stops any running heading animation.
func (v *Viewer) Unload() {
	v.animator.Stop()
}
