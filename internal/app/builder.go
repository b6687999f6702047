// Package app assembles configured drivers into one orchestrator that owns
// the binding registry, the context manager, and the dispatch loop, and
// drives the per-tick sequence: poll -> dispatch -> active context update.
package app

import (
	"time"

	"github.com/sweeney/control-deck/internal/gpio"
	"github.com/sweeney/control-deck/internal/input"
	"github.com/sweeney/control-deck/internal/midi"
)

// Builder is the ordered fluent configuration surface:
//
//	app := app.NewBuilder().
//		MIDI(out).
//		Buttons(reader, defs, 5*time.Millisecond).
//		InputConfig(input.Timing{...}).
//		Build()
//
// Each option records a capability; contexts declare Requirements against
// them. Configuration is immutable once Begin succeeds.
type Builder struct {
	reader   gpio.Reader
	defs     []input.ButtonDef
	debounce time.Duration
	timing   input.Timing
	out      midi.Output
	caps     Requirements
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{debounce: input.DefaultDebounce}
}

// MIDI enables the MIDI output capability.
func (b *Builder) MIDI(out midi.Output) *Builder {
	b.out = out
	b.caps.MIDI = out != nil
	return b
}

// Buttons configures the button set and debounce interval. The reader must
// return one raw level per definition, in definition order.
func (b *Builder) Buttons(reader gpio.Reader, defs []input.ButtonDef, debounce time.Duration) *Builder {
	b.reader = reader
	b.defs = defs
	b.debounce = debounce
	b.caps.Buttons = len(defs) > 0
	return b
}

// InputConfig sets the gesture timing thresholds. Zero fields fall back to
// the defaults.
func (b *Builder) InputConfig(timing input.Timing) *Builder {
	b.timing = timing
	return b
}

// Build assembles the App. Validation is deferred to Begin.
func (b *Builder) Build() *App {
	return &App{
		reader:   b.reader,
		defs:     b.defs,
		debounce: b.debounce,
		timing:   b.timing,
		out:      b.out,
		caps:     b.caps,
		contexts: NewManager(),
		registry: input.NewRegistry(),
	}
}
