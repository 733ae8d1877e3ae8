// Package scheduler coalesces bursts of edits into a single delayed action.
package scheduler

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer runs a bound action once after a quiet period.
// Each Schedule call cancels the pending timer and starts a new one, so only
// the most recent call within a window survives.
type Debouncer struct {
	mu      sync.Mutex
	action  func()
	timer   *time.Timer
	enabled bool

	// generation invalidates timers that were stopped too late to
	// prevent their func from starting
	generation uint64

	// running counts actions in progress; idle is signalled when it drops
	// to zero
	running int
	idle    *sync.Cond
}

// New creates an enabled debouncer bound to action.
func New(action func()) *Debouncer {
	d := &Debouncer{
		action:  action,
		enabled: true,
	}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Schedule (re)starts the timer for delay. It returns false when the
// debouncer is disabled and nothing was scheduled.
func (d *Debouncer) Schedule(delay time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.enabled {
		return false
	}

	d.cancelLocked()

	gen := d.generation
	d.timer = time.AfterFunc(delay, func() {
		d.fire(gen)
	})
	return true
}

// fire runs the action if the timer that called it is still current.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.generation || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.generation++
	d.running++
	d.mu.Unlock()

	d.run()
}

// run invokes the action. Caller has incremented d.running under d.mu.
func (d *Debouncer) run() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("debounced action panicked", slog.Any("error", r))
		}
		d.mu.Lock()
		d.running--
		if d.running == 0 {
			d.idle.Broadcast()
		}
		d.mu.Unlock()
	}()
	d.action()
}

// cancelLocked stops the pending timer. Caller holds d.mu.
func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}

// Pending reports whether a timer is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Enable resumes scheduling.
func (d *Debouncer) Enable() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = true
}

// Disable suppresses future scheduling and cancels any pending timer.
func (d *Debouncer) Disable() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = false
	d.cancelLocked()
}

// Enabled reports whether Schedule currently has any effect.
func (d *Debouncer) Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

// Flush runs a pending action immediately on the calling goroutine.
// It returns false if nothing was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return false
	}
	d.cancelLocked()
	d.running++
	d.mu.Unlock()

	d.run()
	return true
}

// Wait blocks until no action is running, including one whose timer fired
// before Flush was called.
func (d *Debouncer) Wait() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.running > 0 {
		d.idle.Wait()
	}
}

// Stop cancels a pending action without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}
