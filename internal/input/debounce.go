package input

import "time"

// Debouncer filters one button's raw logical level into a stable level.
// A level change is only accepted once the new level has persisted for the
// configured interval. A zero interval degenerates to pass-through.
type Debouncer struct {
	interval     time.Duration
	stable       bool
	pending      bool
	hasPending   bool
	pendingSince time.Time
}

// NewDebouncer creates a Debouncer with the given interval. The stable level
// starts inactive; a button held at boot produces a transition once the
// active level has persisted for the interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	if interval < 0 {
		interval = 0
	}
	return &Debouncer{interval: interval}
}

// Step feeds one raw sample. It returns the current stable level and whether
// this sample completed a genuine transition. The changed signal is produced
// exactly once per transition; bouncing within the interval never produces
// one.
func (d *Debouncer) Step(raw bool, now time.Time) (level bool, changed bool) {
	if raw == d.stable {
		// Flap back to the stable level cancels any pending transition.
		d.hasPending = false
		return d.stable, false
	}

	if !d.hasPending || d.pending != raw {
		d.pending = raw
		d.hasPending = true
		d.pendingSince = now
	}

	if now.Sub(d.pendingSince) >= d.interval {
		d.stable = raw
		d.hasPending = false
		return d.stable, true
	}

	return d.stable, false
}

// Level returns the current stable level without consuming a sample.
func (d *Debouncer) Level() bool {
	return d.stable
}
