// Package input contains the pure gesture-processing core: debounce,
// per-button gesture state machines, the binding registry, and the dispatch
// loop. This package has NO external dependencies (no GPIO, MQTT, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package input

import "time"

// ButtonID identifies a configured button. IDs are assigned by the host at
// configuration time and may be sparse.
type ButtonID uint8

// ButtonDef describes one physical button. Created once at configuration
// time; never mutated.
type ButtonDef struct {
	ID  ButtonID
	Pin int
	// ActiveLow is true for normally-open buttons wired to ground with a
	// pull-up: raw level 0 means pressed.
	ActiveLow bool
}

// EventKind classifies a semantic gesture.
type EventKind string

const (
	Press     EventKind = "PRESS"
	Release   EventKind = "RELEASE"
	LongPress EventKind = "LONG_PRESS"
	DoubleTap EventKind = "DOUBLE_TAP"
)

// Event is a single gesture emitted by a button's state machine.
type Event struct {
	Timestamp time.Time
	Button    ButtonID
	Kind      EventKind
}

// Handler is invoked synchronously on the dispatch loop's execution context.
// Handlers must return quickly and must not re-enter the loop.
type Handler func(Event)

// Timing holds the gesture disambiguation thresholds.
type Timing struct {
	// LongPress is how long a button must be held before LongPress fires.
	LongPress time.Duration
	// DoubleTapWindow is the maximum gap between a release and the next
	// press for the pair to count as a double tap.
	DoubleTapWindow time.Duration
}

// Default gesture timings, matching typical control-surface feel.
const (
	DefaultDebounce        = 5 * time.Millisecond
	DefaultLongPress       = 500 * time.Millisecond
	DefaultDoubleTapWindow = 300 * time.Millisecond
)

// withDefaults fills in zero fields.
func (t Timing) withDefaults() Timing {
	if t.LongPress <= 0 {
		t.LongPress = DefaultLongPress
	}
	if t.DoubleTapWindow <= 0 {
		t.DoubleTapWindow = DefaultDoubleTapWindow
	}
	return t
}

// EventCounts tracks the number of each gesture kind since startup.
type EventCounts struct {
	Press     int
	Release   int
	LongPress int
	DoubleTap int
}

func (c *EventCounts) count(kind EventKind) {
	switch kind {
	case Press:
		c.Press++
	case Release:
		c.Release++
	case LongPress:
		c.LongPress++
	case DoubleTap:
		c.DoubleTap++
	}
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
