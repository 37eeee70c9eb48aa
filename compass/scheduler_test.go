package compass

import (
	"testing"
	"time"
)

func TestFrameQueueRunsOnce(t *testing.T) {
	q := NewFrameQueue()

	fired := 0
	q.Schedule(func(now time.Time) { fired++ })

	q.Run(time.Unix(0, 0))
	if fired != 1 {
		t.Errorf("expected 1 firing after first run, got %d", fired)
	}

	q.Run(time.Unix(1, 0))
	if fired != 1 {
		t.Errorf("expected callback to fire only once, got %d firings", fired)
	}
}

func TestFrameQueuePassesTimestamp(t *testing.T) {
	q := NewFrameQueue()

	var got time.Time
	q.Schedule(func(now time.Time) { got = now })

	want := time.Unix(42, 123)
	q.Run(want)
	if !got.Equal(want) {
		t.Errorf("expected callback timestamp %v, got %v", want, got)
	}
}

func TestFrameQueueCancel(t *testing.T) {
	q := NewFrameQueue()

	fired := false
	h := q.Schedule(func(now time.Time) { fired = true })

	q.Cancel(h)
	q.Run(time.Unix(0, 0))

	if fired {
		t.Error("expected canceled callback to never fire")
	}
	if q.Pending() != 0 {
		t.Errorf("expected 0 pending, got %d", q.Pending())
	}

	// Canceling an already-fired or unknown handle is a no-op.
	q.Cancel(h)
	q.Cancel(Handle(999))
}

func TestFrameQueueScheduleDuringRun(t *testing.T) {
	q := NewFrameQueue()

	var order []string
	q.Schedule(func(now time.Time) {
		order = append(order, "first")
		q.Schedule(func(now time.Time) { order = append(order, "second") })
	})

	// The callback scheduled during Run must wait for the next frame.
	q.Run(time.Unix(0, 0))
	if len(order) != 1 || order[0] != "first" {
		t.Fatalf("expected only the first callback in frame 1, got %v", order)
	}
	if q.Pending() != 1 {
		t.Errorf("expected 1 pending after frame 1, got %d", q.Pending())
	}

	q.Run(time.Unix(1, 0))
	if len(order) != 2 || order[1] != "second" {
		t.Fatalf("expected second callback in frame 2, got %v", order)
	}
}

func TestFrameQueueCancelDuringRun(t *testing.T) {
	q := NewFrameQueue()

	var fired []string
	var second Handle
	q.Schedule(func(now time.Time) {
		fired = append(fired, "first")
		q.Cancel(second)
	})
	second = q.Schedule(func(now time.Time) { fired = append(fired, "second") })

	// The first callback cancels the second within the same frame.
	q.Run(time.Unix(0, 0))
	q.Run(time.Unix(1, 0))

	if len(fired) != 1 || fired[0] != "first" {
		t.Errorf("expected canceled same-frame callback to never fire, got %v", fired)
	}
}

func TestFrameQueuePending(t *testing.T) {
	q := NewFrameQueue()

	if q.Pending() != 0 {
		t.Errorf("expected empty queue, got %d pending", q.Pending())
	}

	h1 := q.Schedule(func(now time.Time) {})
	q.Schedule(func(now time.Time) {})
	if q.Pending() != 2 {
		t.Errorf("expected 2 pending, got %d", q.Pending())
	}

	q.Cancel(h1)
	if q.Pending() != 1 {
		t.Errorf("expected 1 pending after cancel, got %d", q.Pending())
	}

	q.Run(time.Unix(0, 0))
	if q.Pending() != 0 {
		t.Errorf("expected 0 pending after run, got %d", q.Pending())
	}
}
