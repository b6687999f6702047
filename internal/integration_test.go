package internal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/control-deck/internal/app"
	"github.com/sweeney/control-deck/internal/gpio"
	"github.com/sweeney/control-deck/internal/input"
	"github.com/sweeney/control-deck/internal/midi"
)

// deckContext mirrors the shipped Perform context: button 1 momentary CC 20,
// button 2 toggle CC 21 with double-tap reset.
type deckContext struct {
	api    *app.API
	toggle bool
}

func (c *deckContext) Requirements() app.Requirements {
	return app.Requirements{Buttons: true, MIDI: true}
}

func (c *deckContext) Initialize(api *app.API) error {
	c.api = api
	c.toggle = false

	api.OnButton(1).Press().Then(func(input.Event) {
		api.MIDI().SendCC(0, 20, 127)
	})
	api.OnButton(1).Release().Then(func(input.Event) {
		api.MIDI().SendCC(0, 20, 0)
	})
	api.OnButton(2).Press().Then(func(input.Event) {
		c.toggle = !c.toggle
		value := uint8(0)
		if c.toggle {
			value = 127
		}
		api.MIDI().SendCC(0, 21, value)
	})
	api.OnButton(2).DoubleTap(0).Then(func(input.Event) {
		c.toggle = false
		api.MIDI().SendCC(0, 21, 0)
	})
	return nil
}

func (c *deckContext) Update(now time.Time) {}

func (c *deckContext) Cleanup() {}

func buildDeck(t *testing.T, reader gpio.Reader, out midi.Output) *app.App {
	t.Helper()
	defs := []input.ButtonDef{
		{ID: 1, Pin: 5, ActiveLow: true},
		{ID: 2, Pin: 6, ActiveLow: true},
	}
	deck := app.NewBuilder().
		MIDI(out).
		Buttons(reader, defs, 5*time.Millisecond).
		InputConfig(input.Timing{LongPress: 500 * time.Millisecond, DoubleTapWindow: 300 * time.Millisecond}).
		Build()
	if err := deck.RegisterContext(0, "Perform", &deckContext{}); err != nil {
		t.Fatalf("register context: %v", err)
	}
	return deck
}

func runTicks(t *testing.T, deck *app.App, start time.Time, poll time.Duration, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := deck.Update(start.Add(time.Duration(i) * poll)); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
}

// TestIntegrationMomentaryButton tests the complete flow from raw GPIO
// samples to MIDI CC output using fakes.
func TestIntegrationMomentaryButton(t *testing.T) {
	// Active-low: raw 1 = released, raw 0 = pressed.
	samples := [][]int{
		{1, 1}, // t=0    released
		{0, 1}, // t=10ms button 1 down, debounce pending
		{0, 1}, // t=20ms accepted -> Press -> CC 20=127
		{1, 1}, // t=30ms button 1 up, debounce pending
		{1, 1}, // t=40ms accepted -> Release -> CC 20=0
	}

	reader := gpio.NewFakeReader(samples)
	out := midi.NewFakeOutput()
	deck := buildDeck(t, reader, out)

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := deck.Begin(start); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	runTicks(t, deck, start, 10*time.Millisecond, len(samples))

	if len(out.CCs) != 2 {
		t.Fatalf("expected 2 CCs, got %d: %v", len(out.CCs), out.CCs)
	}
	if out.CCs[0].Controller != 20 || out.CCs[0].Value != 127 {
		t.Errorf("CC 0: got controller=%d value=%d, want 20=127", out.CCs[0].Controller, out.CCs[0].Value)
	}
	if out.CCs[1].Controller != 20 || out.CCs[1].Value != 0 {
		t.Errorf("CC 1: got controller=%d value=%d, want 20=0", out.CCs[1].Controller, out.CCs[1].Value)
	}

	// Verify payloads are well-formed
	for i, payload := range out.Payloads {
		var parsed midi.Payload
		if err := json.Unmarshal(payload, &parsed); err != nil {
			t.Errorf("payload %d: invalid JSON: %v", i, err)
		}
		if parsed.MIDI.Type != "cc" {
			t.Errorf("payload %d: unexpected type %q", i, parsed.MIDI.Type)
		}
	}
}

// TestIntegrationDoubleTapReset drives button 2 through toggle, toggle,
// double tap: the second release both toggles off and fires the reset.
func TestIntegrationDoubleTapReset(t *testing.T) {
	samples := [][]int{
		{1, 1}, // t=0    released
		{1, 0}, // t=10ms button 2 down
		{1, 0}, // t=20ms Press -> toggle on -> CC 21=127
		{1, 1}, // t=30ms up
		{1, 1}, // t=40ms Release, double-tap armed
		{1, 0}, // t=50ms down again, 20ms after release (inside 300ms window)
		{1, 0}, // t=60ms Press -> toggle off -> CC 21=0
		{1, 1}, // t=70ms up
		{1, 1}, // t=80ms Release + DoubleTap -> reset -> CC 21=0
	}

	reader := gpio.NewFakeReader(samples)
	out := midi.NewFakeOutput()
	deck := buildDeck(t, reader, out)

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := deck.Begin(start); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	runTicks(t, deck, start, 10*time.Millisecond, len(samples))

	wantValues := []uint8{127, 0, 0}
	if len(out.CCs) != len(wantValues) {
		t.Fatalf("expected %d CCs, got %d: %v", len(wantValues), len(out.CCs), out.CCs)
	}
	for i, want := range wantValues {
		if out.CCs[i].Controller != 21 {
			t.Errorf("CC %d: expected controller 21, got %d", i, out.CCs[i].Controller)
		}
		if out.CCs[i].Value != want {
			t.Errorf("CC %d: expected value %d, got %d", i, want, out.CCs[i].Value)
		}
	}

	counts := deck.Counts()
	if counts.Press != 2 || counts.Release != 2 || counts.DoubleTap != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}

// TestIntegrationSlowTapsAreIndependent verifies two presses outside the
// double-tap window never fire DoubleTap.
func TestIntegrationSlowTapsAreIndependent(t *testing.T) {
	reader := gpio.NewFakeReader(nil)
	out := midi.NewFakeOutput()
	deck := buildDeck(t, reader, out)

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := deck.Begin(start); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	tick := func(ms int, raw []int) {
		reader.Samples = [][]int{raw}
		reader.Reset()
		if err := deck.Update(start.Add(time.Duration(ms) * time.Millisecond)); err != nil {
			t.Fatalf("t=%dms: %v", ms, err)
		}
	}

	// First tap.
	tick(0, []int{1, 1})
	tick(10, []int{1, 0})
	tick(20, []int{1, 0})
	tick(30, []int{1, 1})
	tick(40, []int{1, 1})
	// Gap of 400ms, then second tap.
	tick(440, []int{1, 0})
	tick(450, []int{1, 0})
	tick(460, []int{1, 1})
	tick(470, []int{1, 1})

	if counts := deck.Counts(); counts.DoubleTap != 0 {
		t.Errorf("expected no double tap for 400ms gap, got %d", counts.DoubleTap)
	}
	// Two independent toggles: on, then off.
	wantValues := []uint8{127, 0}
	if len(out.CCs) != len(wantValues) {
		t.Fatalf("expected %d CCs, got %d: %v", len(wantValues), len(out.CCs), out.CCs)
	}
	for i, want := range wantValues {
		if out.CCs[i].Value != want {
			t.Errorf("CC %d: expected value %d, got %d", i, want, out.CCs[i].Value)
		}
	}
}

// TestIntegrationBounceRejection verifies bounces shorter than the debounce
// interval produce no gestures and no MIDI output.
func TestIntegrationBounceRejection(t *testing.T) {
	samples := [][]int{
		{1, 1}, // t=0   released
		{0, 1}, // t=2ms bounce starts
		{1, 1}, // t=4ms bounce reverts before the 5ms interval
		{1, 1}, // t=6ms
		{1, 1}, // t=8ms
	}

	reader := gpio.NewFakeReader(samples)
	out := midi.NewFakeOutput()
	deck := buildDeck(t, reader, out)

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := deck.Begin(start); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	runTicks(t, deck, start, 2*time.Millisecond, len(samples))

	if len(out.CCs) != 0 {
		t.Errorf("expected no CCs for a bounce, got %v", out.CCs)
	}
	counts := deck.Counts()
	if counts.Press != 0 || counts.Release != 0 {
		t.Errorf("expected no gestures for a bounce, got %+v", counts)
	}
}

// TestIntegrationLongPressOnce verifies a 600ms hold produces exactly one
// Press and one LongPress.
func TestIntegrationLongPressOnce(t *testing.T) {
	reader := gpio.NewFakeReader(nil)
	out := midi.NewFakeOutput()
	deck := buildDeck(t, reader, out)

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if err := deck.Begin(start); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	reader.Samples = [][]int{{0, 1}}
	for ms := 0; ms <= 600; ms += 10 {
		if err := deck.Update(start.Add(time.Duration(ms) * time.Millisecond)); err != nil {
			t.Fatalf("t=%dms: %v", ms, err)
		}
	}
	reader.Samples = [][]int{{1, 1}}
	reader.Reset()
	for ms := 610; ms <= 630; ms += 10 {
		if err := deck.Update(start.Add(time.Duration(ms) * time.Millisecond)); err != nil {
			t.Fatalf("t=%dms: %v", ms, err)
		}
	}

	counts := deck.Counts()
	if counts.Press != 1 {
		t.Errorf("expected exactly 1 press, got %d", counts.Press)
	}
	if counts.LongPress != 1 {
		t.Errorf("expected exactly 1 long press, got %d", counts.LongPress)
	}
	if counts.Release != 1 {
		t.Errorf("expected exactly 1 release, got %d", counts.Release)
	}
}
