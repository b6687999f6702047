package midi

// FakeOutput records sent messages for test assertions.
type FakeOutput struct {
	// CCs contains all control changes that were sent.
	CCs []CC

	// Payloads contains the JSON payloads for control changes.
	Payloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// SendError, if set, will be returned by SendCC.
	SendError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakeOutput creates a FakeOutput for testing.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

// SendCC records the control change.
func (f *FakeOutput) SendCC(channel, controller, value uint8) error {
	if f.SendError != nil {
		return f.SendError
	}

	cc := CC{Channel: channel, Controller: controller, Value: value}
	f.CCs = append(f.CCs, cc)

	payload, err := FormatCCPayload(cc)
	if err != nil {
		return err
	}
	f.Payloads = append(f.Payloads, payload)

	return nil
}

// PublishSystem records the system event.
func (f *FakeOutput) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Close marks the output as closed.
func (f *FakeOutput) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake output is "connected".
func (f *FakeOutput) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded messages.
func (f *FakeOutput) Reset() {
	f.CCs = nil
	f.Payloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.SendError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
