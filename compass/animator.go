package compass

import (
	"math"
	"time"
)

// Default animation parameters.
const (
	DefaultDuration = 140 * time.Millisecond
	DefaultMinDelta = 0.5 // degrees
)

// Surface is a rotatable map surface driven by the animator. Heading
// reports the current bearing in degrees, or false while the surface
// is not ready to be rotated.
type Surface interface {
	Heading() (float64, bool)
	SetHeading(h float64)
}

// Options override the animator defaults for a single rotation.
// Zero fields fall back to the animator's configured defaults.
type Options struct {
	Duration time.Duration // total animation time
	MinDelta float64       // snap threshold in degrees
}

// animation is the state of one in-flight rotation. Immutable after
// creation; each frame only reads it.
type animation struct {
	start     float64 // canonical heading at animation start
	delta     float64 // signed displacement in (-180, 180]
	startTime time.Time
	duration  time.Duration
}

// Animator rotates a Surface toward target bearings along the shortest
// arc, eased over a fixed duration. At most one animation is in flight
// per animator; a new request cancels and replaces the old one, and a
// canceled frame callback can never command the surface afterward.
//
// Execution is cooperative and single-threaded: every method and every
// frame callback must run on the goroutine driving the Scheduler.
// Callers must Stop the animator before discarding the surface.
type Animator struct {
	surface  Surface
	sched    Scheduler
	defaults Options

	anim   *animation
	handle Handle
	armed  bool // a frame callback is scheduled under handle

	now func() time.Time
}

// NewAnimator creates an animator driving surface through sched. Zero
// fields in defaults fall back to DefaultDuration and DefaultMinDelta.
func NewAnimator(surface Surface, sched Scheduler, defaults Options) *Animator {
	return &Animator{
		surface:  surface,
		sched:    sched,
		defaults: defaults,
		now:      time.Now,
	}
}

// RotateTo starts a smooth rotation to target degrees using the
// animator's default options.
func (a *Animator) RotateTo(target float64) {
	a.RotateToWithOptions(target, Options{})
}

// RotateToWithOptions starts a smooth rotation to target degrees. Any
// in-flight animation is canceled first; because the new start heading
// is re-read from the surface, a mid-flight retarget redirects smoothly
// from wherever the previous animation left the surface.
//
// No-ops: the surface is unavailable, or target is not finite. The
// surface is never commanded with a non-finite heading. Displacements
// below the snap threshold commit the target directly, with no frames
// scheduled.
func (a *Animator) RotateToWithOptions(target float64, opts Options) {
	// Cancel before anything else so a stale frame cannot fire after
	// this call returns.
	a.cancelPending()

	if math.IsNaN(target) || math.IsInf(target, 0) {
		return
	}
	current, ok := a.surface.Heading()
	if !ok {
		return
	}

	duration := opts.Duration
	if duration == 0 {
		duration = a.defaults.Duration
	}
	if duration == 0 {
		duration = DefaultDuration
	}
	minDelta := opts.MinDelta
	if minDelta == 0 {
		minDelta = a.defaults.MinDelta
	}
	if minDelta == 0 {
		minDelta = DefaultMinDelta
	}

	start := Normalize(current)
	end := Normalize(target)
	delta := ShortestDelta(start, end)

	if math.Abs(delta) < minDelta || duration < 0 {
		a.surface.SetHeading(end)
		return
	}

	a.anim = &animation{
		start:     start,
		delta:     delta,
		startTime: a.now(),
		duration:  duration,
	}
	a.handle = a.sched.Schedule(a.step)
	a.armed = true
}

// step advances the active animation by one frame.
func (a *Animator) step(now time.Time) {
	a.armed = false
	anim := a.anim
	if anim == nil {
		return
	}

	t := clamp01(float64(now.Sub(anim.startTime)) / float64(anim.duration))
	a.surface.SetHeading(Normalize(anim.start + anim.delta*EaseOutCubic(t)))

	if t < 1 {
		a.handle = a.sched.Schedule(a.step)
		a.armed = true
		return
	}
	a.anim = nil
}

// Stop cancels any in-flight rotation without commanding a final
// heading; the surface keeps its last value. Safe to call when idle.
func (a *Animator) Stop() {
	a.cancelPending()
}

// Animating reports whether a rotation is in flight.
func (a *Animator) Animating() bool {
	return a.anim != nil
}

// cancelPending invalidates the scheduled frame callback, if any, and
// discards the active animation state.
func (a *Animator) cancelPending() {
	if a.armed {
		a.sched.Cancel(a.handle)
		a.armed = false
	}
	a.anim = nil
}
