// Package telemetry provides frame timing and rotation event logging
// for the viewer.
package telemetry

import "log/slog"

// Trigger names for the user action behind a rotation.
const (
	TriggerStep    = "step"    // Q/E heading step
	TriggerNorth   = "north"   // reset to north-up
	TriggerBearing = "bearing" // face the selected marker
)

// RotationEvent records one heading change command.
type RotationEvent struct {
	Frame      int64   `csv:"frame"`
	Trigger    string  `csv:"trigger"`
	FromDeg    float64 `csv:"from_deg"`
	ToDeg      float64 `csv:"to_deg"`
	DeltaDeg   float64 `csv:"delta_deg"`
	DurationMS int64   `csv:"duration_ms"`

	// True when the turn was below the animation threshold and the
	// heading was set directly.
	Snapped bool `csv:"snapped"`
}

// LogValue implements slog.LogValuer for structured logging.
func (e RotationEvent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("frame", e.Frame),
		slog.String("trigger", e.Trigger),
		slog.Float64("from_deg", e.FromDeg),
		slog.Float64("to_deg", e.ToDeg),
		slog.Float64("delta_deg", e.DeltaDeg),
		slog.Int64("duration_ms", e.DurationMS),
		slog.Bool("snapped", e.Snapped),
	)
}
