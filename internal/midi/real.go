package midi

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// bufferCapacity bounds how many CC messages are held while disconnected.
const bufferCapacity = 256

// RealOutput publishes to an actual MQTT broker bridging to MIDI.
type RealOutput struct {
	client paho.Client

	mu        sync.Mutex
	buf       *ringBuffer
	connected bool
}

// NewRealOutput creates an output connected to the given broker. The broker
// holds a retained DISCONNECTED system event as the last will so consumers
// can tell an unclean drop from a clean shutdown. CC messages sent while the
// connection is down are buffered and replayed on reconnect.
func NewRealOutput(broker string) (*RealOutput, error) {
	o := &RealOutput{
		buf: newRingBuffer(bufferCapacity),
	}

	lwt, err := FormatSystemPayload(SystemEvent{Event: "DISCONNECTED", Reason: "LWT"})
	if err != nil {
		return nil, fmt.Errorf("format lwt payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("control-deck").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetBinaryWill(TopicSystem, lwt, 1, true).
		SetOnConnectHandler(o.onConnect).
		SetConnectionLostHandler(o.onConnectionLost)

	o.client = paho.NewClient(opts)
	token := o.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return o, nil
}

func (o *RealOutput) onConnect(_ paho.Client) {
	o.mu.Lock()
	o.connected = true
	pending := o.buf.drainAll()
	o.mu.Unlock()

	if len(pending) > 0 {
		log.Printf("midi: replaying %d buffered messages", len(pending))
		for _, msg := range pending {
			o.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
		}
	}
}

func (o *RealOutput) onConnectionLost(_ paho.Client, err error) {
	o.mu.Lock()
	o.connected = false
	o.mu.Unlock()
	log.Printf("midi: connection lost: %v", err)
}

// SendCC sends a control change message. While disconnected the message is
// buffered rather than dropped; the buffer overwrites its oldest entry when
// full.
func (o *RealOutput) SendCC(channel, controller, value uint8) error {
	payload, err := FormatCCPayload(CC{
		Timestamp:  time.Now(),
		Channel:    channel,
		Controller: controller,
		Value:      value,
	})
	if err != nil {
		return fmt.Errorf("format cc payload: %w", err)
	}

	o.mu.Lock()
	if !o.connected {
		o.buf.push(bufferedMsg{topic: Topic, payload: payload})
		o.mu.Unlock()
		return nil
	}
	o.mu.Unlock()

	// QoS 0 (at-most-once), not retained. Fire-and-forget: the token is not
	// waited on, handler latency must not depend on the broker.
	o.client.Publish(Topic, 0, false, payload)
	return nil
}

// PublishSystem sends a system lifecycle event to the broker.
func (o *RealOutput) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	token := o.client.Publish(TopicSystem, 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}

	return nil
}

// IsConnected reports whether the broker connection is up.
func (o *RealOutput) IsConnected() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.connected
}

// Close disconnects from the broker.
func (o *RealOutput) Close() error {
	o.client.Disconnect(1000) // 1 second timeout
	return nil
}
