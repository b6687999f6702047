// Package midi provides the MIDI output transport with abstraction for
// testing. The real implementation publishes CC messages to a
// MIDI-over-MQTT bridge; the fake records them for assertions.
package midi

import (
	"encoding/json"
	"time"
)

// Topic is the MQTT topic for MIDI CC messages.
const Topic = "control/deck/midi/cc"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "control/deck/system"

// Output sends MIDI messages and system events to the bridge.
type Output interface {
	// SendCC sends a control change message. Fire-and-forget: delivery is
	// not acknowledged and failures must not stop the caller.
	SendCC(channel, controller, value uint8) error

	// PublishSystem sends a system lifecycle event to the bridge.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the bridge.
	Close() error
}

// ConnectionStatus reports whether the bridge connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// CC is a control change message.
type CC struct {
	Timestamp  time.Time
	Channel    uint8
	Controller uint8
	Value      uint8
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure for CC messages.
type Payload struct {
	MIDI CCPayload `json:"midi"`
}

// CCPayload contains the control change details.
type CCPayload struct {
	Timestamp  string `json:"timestamp"`
	Type       string `json:"type"`
	Channel    uint8  `json:"channel"`
	Controller uint8  `json:"controller"`
	Value      uint8  `json:"value"`
}

// FormatCCPayload creates the JSON payload for a control change.
func FormatCCPayload(cc CC) ([]byte, error) {
	payload := Payload{
		MIDI: CCPayload{
			Timestamp:  cc.Timestamp.UTC().Format(time.RFC3339Nano),
			Type:       "cc",
			Channel:    cc.Channel,
			Controller: cc.Controller,
			Value:      cc.Value,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
