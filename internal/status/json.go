package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status event payloads.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Buttons       []ButtonJSON `json:"buttons"`
	ActiveContext string       `json:"active_context"`
	Ready         bool         `json:"ready"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MIDI          MIDIStatus   `json:"midi"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// ButtonJSON is the JSON representation of one button's state.
type ButtonJSON struct {
	ID    uint8  `json:"id"`
	Pin   int    `json:"pin"`
	State string `json:"state"`
}

// MIDIStatus reports MIDI bridge connection state.
type MIDIStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of gesture counts.
type CountsJSON struct {
	Press     int `json:"press"`
	Release   int `json:"release"`
	LongPress int `json:"long_press"`
	DoubleTap int `json:"double_tap"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	LongPressMs int64  `json:"long_press_ms"`
	DoubleTapMs int64  `json:"double_tap_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

// ButtonStateString renders a button state for display.
func ButtonStateString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}

// FormatStatusEvent creates a full status snapshot payload for a system
// event (STARTUP, SHUTDOWN, HEARTBEAT).
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	buttons := make([]ButtonJSON, len(snap.Buttons))
	for i, b := range snap.Buttons {
		buttons[i] = ButtonJSON{
			ID:    uint8(b.ID),
			Pin:   b.Pin,
			State: ButtonStateString(b.Pressed),
		}
	}

	sj := StatusJSON{
		Status: StatusInner{
			Event:         event,
			Reason:        reason,
			Buttons:       buttons,
			ActiveContext: snap.ActiveContext,
			Ready:         snap.Ready,
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			MIDI:          MIDIStatus{Connected: snap.MIDIConnected, Broker: snap.Config.Broker},
			Counts: CountsJSON{
				Press:     snap.Counts.Press,
				Release:   snap.Counts.Release,
				LongPress: snap.Counts.LongPress,
				DoubleTap: snap.Counts.DoubleTap,
			},
			Config: ConfigJSON{
				PollMs:      snap.Config.PollMs,
				DebounceMs:  snap.Config.DebounceMs,
				LongPressMs: snap.Config.LongPressMs,
				DoubleTapMs: snap.Config.DoubleTapMs,
				HeartbeatMs: snap.Config.HeartbeatMs,
				Broker:      snap.Config.Broker,
				HTTPAddr:    snap.Config.HTTPAddr,
			},
		},
	}

	if snap.Network != nil {
		sj.Status.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}

	data, _ := json.Marshal(sj)
	return data
}
