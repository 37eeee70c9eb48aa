package compass

import "time"

// FrameFunc is a callback invoked once before the next repaint. The
// argument is the frame timestamp supplied by the scheduler.
type FrameFunc func(now time.Time)

// Handle identifies a scheduled frame callback.
type Handle int

// Scheduler runs callbacks on the next frame. Implementations are
// single-threaded: Schedule, Cancel and the callbacks themselves all
// execute on the goroutine driving the frames.
type Scheduler interface {
	// Schedule registers fn to run once on the next frame.
	Schedule(fn FrameFunc) Handle
	// Cancel discards a scheduled callback. Unknown or already-fired
	// handles are ignored.
	Cancel(h Handle)
}

// frameEntry is one scheduled callback in a FrameQueue.
type frameEntry struct {
	handle   Handle
	fn       FrameFunc
	canceled bool
}

// FrameQueue is a Scheduler drained by the host render loop. The loop
// calls Run once per frame; callbacks scheduled during Run fire on the
// next Run, never the current one.
type FrameQueue struct {
	next    Handle
	pending []frameEntry
	running []frameEntry
}

// NewFrameQueue creates an empty frame queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

// Schedule registers fn for the next Run and returns its handle.
func (q *FrameQueue) Schedule(fn FrameFunc) Handle {
	q.next++
	q.pending = append(q.pending, frameEntry{handle: q.next, fn: fn})
	return q.next
}

// Cancel marks a scheduled callback so it never fires. Covers both the
// pending batch and the batch currently being run, so a callback can
// cancel work scheduled for the same frame.
func (q *FrameQueue) Cancel(h Handle) {
	for i := range q.pending {
		if q.pending[i].handle == h {
			q.pending[i].canceled = true
			return
		}
	}
	for i := range q.running {
		if q.running[i].handle == h {
			q.running[i].canceled = true
			return
		}
	}
}

// Pending returns the number of live callbacks waiting for the next Run.
func (q *FrameQueue) Pending() int {
	n := 0
	for i := range q.pending {
		if !q.pending[i].canceled {
			n++
		}
	}
	return n
}

// Run fires every live callback scheduled before this call, in
// scheduling order, passing now as the frame timestamp.
func (q *FrameQueue) Run(now time.Time) {
	if len(q.pending) == 0 {
		return
	}
	batch := q.pending
	q.pending = nil
	q.running = batch
	for i := range batch {
		if batch[i].canceled {
			continue
		}
		batch[i].fn(now)
	}
	q.running = nil
}
