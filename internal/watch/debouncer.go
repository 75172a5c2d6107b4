package watch

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer coalesces rapid events into a single callback invocation.
// Only the last event within the configured interval triggers the callback,
// and callbacks never run concurrently with each other.
type Debouncer struct {
	interval time.Duration
	callback func(path string)

	mu       sync.Mutex
	timer    *time.Timer
	lastPath string
	stopped  bool

	// runMu serializes callback invocations.
	runMu sync.Mutex
}

// NewDebouncer creates a debouncer that waits for interval of quiet before
// firing callback with the path of the last event.
func NewDebouncer(interval time.Duration, callback func(path string)) *Debouncer {
	return &Debouncer{
		interval: interval,
		callback: callback,
	}
}

// Trigger records an event for path and restarts the quiet period.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.lastPath = path

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("debouncer callback panicked", slog.Any("error", r))
		}
	}()

	d.mu.Lock()
	p, stopped := d.lastPath, d.stopped
	d.mu.Unlock()

	if stopped {
		return
	}

	d.callback(p)
}

// Stop cancels any pending callback and waits for a running one to return.
// Triggers after Stop are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	// Wait out a callback that is already running.
	d.runMu.Lock()
	d.runMu.Unlock() //nolint:staticcheck // empty critical section is the point
}
