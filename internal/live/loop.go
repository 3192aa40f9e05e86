package live

import (
	"context"
	"image"
	"sync"
	"time"
)

// Default sampling cadences for the two live-feedback loops.
const (
	DefaultFaceInterval    = 200 * time.Millisecond
	DefaultQualityInterval = 500 * time.Millisecond
)

// FrameSource supplies the most recent frame of a live session. The ready
// flag is false until at least one frame has been decoded; a not-ready tick
// is skipped and rescheduled, never treated as an error.
type FrameSource interface {
	Frame() (*image.RGBA, bool)
}

// TickFunc processes one sampled frame. The next tick is scheduled only
// after the function returns, so no two ticks of the same loop overlap.
type TickFunc func(frame *image.RGBA)

// DetectionLoop repeatedly samples a frame source at a fixed interval and
// forwards frames to a callback. Start is idempotent while running; Stop
// synchronously cancels, and after it returns the callback never fires for
// ticks scheduled before the stop.
type DetectionLoop struct {
	source   FrameSource
	tick     TickFunc
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDetectionLoop creates a stopped loop. A non-positive interval falls
// back to DefaultQualityInterval.
func NewDetectionLoop(source FrameSource, interval time.Duration, tick TickFunc) *DetectionLoop {
	if interval <= 0 {
		interval = DefaultQualityInterval
	}
	return &DetectionLoop{source: source, tick: tick, interval: interval}
}

// Start begins ticking. Calling Start on a running loop is a no-op: there is
// never more than one scheduler per loop.
func (l *DetectionLoop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done
	go l.run(ctx, done)
}

func (l *DetectionLoop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		// A cancellation that raced the timer must win.
		select {
		case <-ctx.Done():
			return
		default:
		}

		if frame, ready := l.source.Frame(); ready {
			l.tick(frame)
		}

		// Reschedule only after the tick has fully completed.
		timer.Reset(l.interval)
	}
}

// Stop cancels the loop and waits for any in-flight tick to finish. Stopping
// a loop that was never started is a no-op.
func (l *DetectionLoop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop currently has a scheduler.
func (l *DetectionLoop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}
