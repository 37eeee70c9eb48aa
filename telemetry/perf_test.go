package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few frames
	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseInput)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseRender)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseInput]; !ok {
		t.Error("expected input phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseRender]; !ok {
		t.Error("expected render phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseRender)
		pc.EndFrame()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration after window filled")
	}

	if stats.FPS <= 0 {
		t.Error("expected positive fps")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgFrameDuration != 0 {
		t.Error("expected zero avg frame duration for empty collector")
	}

	if stats.FPS != 0 {
		t.Error("expected zero fps for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestFrameStatsToCSV(t *testing.T) {
	stats := FrameStats{
		AvgFrameDuration: 16 * time.Millisecond,
		MinFrameDuration: 12 * time.Millisecond,
		MaxFrameDuration: 30 * time.Millisecond,
		FPS:              62.5,
		PhasePct: map[string]float64{
			PhaseInput:  5,
			PhaseRender: 80,
		},
	}

	row := stats.ToCSV(360)
	if row.WindowEnd != 360 {
		t.Errorf("window end mismatch: got %d", row.WindowEnd)
	}
	if row.AvgFrameUS != 16000 {
		t.Errorf("avg frame mismatch: got %d us", row.AvgFrameUS)
	}
	if row.RenderPct != 80 {
		t.Errorf("render pct mismatch: got %f", row.RenderPct)
	}
	// Phases absent from the window report zero
	if row.MarkersPct != 0 {
		t.Errorf("expected zero markers pct, got %f", row.MarkersPct)
	}
}
