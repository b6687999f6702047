package input

import "time"

// gestureState is the per-button disambiguation state.
type gestureState uint8

const (
	stateIdle gestureState = iota
	statePressed
	statePendingDoubleTap
)

// Machine is the gesture state machine for a single button. It consumes
// debounced levels plus a monotonic clock and emits semantic events.
// Owned exclusively by the dispatch loop; mutated only during a tick.
type Machine struct {
	button ButtonID
	timing Timing

	state          gestureState
	pressStart     time.Time
	lastRelease    time.Time
	longPressFired bool
	// secondTap marks the current press as the second half of a double tap.
	secondTap bool
}

// NewMachine creates a Machine for the given button. Zero timing fields fall
// back to the defaults.
func NewMachine(button ButtonID, timing Timing) *Machine {
	return &Machine{
		button: button,
		timing: timing.withDefaults(),
	}
}

// SetTiming replaces the machine's thresholds. Must not be called mid-tick.
func (m *Machine) SetTiming(timing Timing) {
	m.timing = timing.withDefaults()
}

// Timing returns the machine's effective thresholds.
func (m *Machine) Timing() Timing {
	return m.timing
}

// Step advances the machine one tick. level is the debounced logical level
// (true = active), changed reports whether this tick completed a level
// transition. Returns the events emitted this tick, in emission order.
//
// Once LongPress has fired for a press, that press is disqualified from
// double-tap pairing: its release neither completes a pending double tap nor
// arms a new one.
func (m *Machine) Step(level, changed bool, now time.Time) []Event {
	switch m.state {
	case stateIdle:
		if changed && level {
			return []Event{m.press(now, false)}
		}

	case statePressed:
		if changed && !level {
			return m.release(now)
		}
		if level && !m.longPressFired && now.Sub(m.pressStart) >= m.timing.LongPress {
			m.longPressFired = true
			return []Event{{Timestamp: now, Button: m.button, Kind: LongPress}}
		}

	case statePendingDoubleTap:
		if changed && level {
			second := now.Sub(m.lastRelease) <= m.timing.DoubleTapWindow
			return []Event{m.press(now, second)}
		}
		if now.Sub(m.lastRelease) > m.timing.DoubleTapWindow {
			// Window elapsed without a new press. No event for the timeout.
			m.state = stateIdle
		}
	}

	return nil
}

func (m *Machine) press(now time.Time, secondTap bool) Event {
	m.state = statePressed
	m.pressStart = now
	m.longPressFired = false
	m.secondTap = secondTap
	return Event{Timestamp: now, Button: m.button, Kind: Press}
}

func (m *Machine) release(now time.Time) []Event {
	events := []Event{{Timestamp: now, Button: m.button, Kind: Release}}

	switch {
	case m.longPressFired:
		// A long-pressed press is a plain release either way.
		m.state = stateIdle
	case m.secondTap:
		events = append(events, Event{Timestamp: now, Button: m.button, Kind: DoubleTap})
		m.state = stateIdle
	default:
		m.state = statePendingDoubleTap
		m.lastRelease = now
	}

	m.secondTap = false
	return events
}
