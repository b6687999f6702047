package input

import (
	"fmt"
	"time"
)

// Loop drives every configured button through debounce, gesture detection,
// and handler dispatch, once per tick. Buttons are processed in
// configuration order; events for one button are dispatched before the next
// button is touched.
type Loop struct {
	buttons    []ButtonDef
	debouncers []*Debouncer
	machines   []*Machine
	registry   *Registry
	timing     Timing

	counts        EventCounts
	startTime     time.Time
	lastHeartbeat time.Time
}

// NewLoop creates a Loop for the given buttons. The registry may already
// hold bindings; timing overrides registered later are picked up by
// ReloadTimings. The startTime is used for calculating uptime in heartbeat
// events.
func NewLoop(buttons []ButtonDef, debounce time.Duration, timing Timing, registry *Registry, startTime time.Time) *Loop {
	l := &Loop{
		buttons:       buttons,
		debouncers:    make([]*Debouncer, len(buttons)),
		machines:      make([]*Machine, len(buttons)),
		registry:      registry,
		timing:        timing.withDefaults(),
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
	for i, def := range buttons {
		l.debouncers[i] = NewDebouncer(debounce)
		l.machines[i] = NewMachine(def.ID, registry.TimingFor(def.ID, l.timing))
	}
	return l
}

// ReloadTimings re-applies the registry's per-button timing overrides.
// Called after a context's initialize has run its registrations.
func (l *Loop) ReloadTimings() {
	for i, def := range l.buttons {
		l.machines[i].SetTiming(l.registry.TimingFor(def.ID, l.timing))
	}
}

// Tick processes one set of raw samples, one level per configured button in
// configuration order. Handlers run synchronously on the caller's execution
// context before Tick returns.
func (l *Loop) Tick(raw []int, now time.Time) error {
	if len(raw) != len(l.buttons) {
		return fmt.Errorf("tick: got %d samples for %d buttons", len(raw), len(l.buttons))
	}

	for i, def := range l.buttons {
		active := raw[i] != 0
		if def.ActiveLow {
			active = raw[i] == 0
		}

		level, changed := l.debouncers[i].Step(active, now)
		for _, ev := range l.machines[i].Step(level, changed, now) {
			l.counts.count(ev.Kind)
			l.registry.Dispatch(ev)
		}
	}
	return nil
}

// Counts returns a copy of the per-kind event counters.
func (l *Loop) Counts() EventCounts {
	return l.counts
}

// Levels returns the current stable level of every button, in configuration
// order (true = active).
func (l *Loop) Levels() []bool {
	levels := make([]bool, len(l.debouncers))
	for i, d := range l.debouncers {
		levels[i] = d.Level()
	}
	return levels
}

// Buttons returns the configured button definitions, in configuration order.
func (l *Loop) Buttons() []ButtonDef {
	return l.buttons
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil if the interval has not
// elapsed or if interval is <= 0 (disabled).
func (l *Loop) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(l.lastHeartbeat) < interval {
		return nil
	}

	l.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(l.startTime),
		Counts:    l.counts,
	}
}
