// Package status provides a thread-safe status tracker for the control-deck
// daemon. The tick loop writes it; HTTP handlers read it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/control-deck/internal/input"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	DebounceMs  int64
	LongPressMs int64
	DoubleTapMs int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	WSBroker    string // Websocket broker URL for browser MQTT (empty = disabled)
}

// ButtonState is one button's current stable state.
type ButtonState struct {
	ID      input.ButtonID
	Pin     int
	Pressed bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Buttons       []ButtonState
	ActiveContext string
	Ready         bool
	Counts        input.EventCounts
	StartTime     time.Time
	Now           time.Time
	MIDIConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets button states, the active context name, readiness, and event
// counts. Called from the tick loop on every tick.
func (t *Tracker) Update(buttons []ButtonState, activeContext string, ready bool, counts input.EventCounts) {
	t.mu.Lock()
	t.snap.Buttons = buttons
	t.snap.ActiveContext = activeContext
	t.snap.Ready = ready
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMIDIConnected sets the MIDI bridge connection status.
func (t *Tracker) SetMIDIConnected(connected bool) {
	t.mu.Lock()
	t.snap.MIDIConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Buttons = append([]ButtonState(nil), t.snap.Buttons...)
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
