package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/sweeney/control-deck/internal/input"
	"github.com/sweeney/control-deck/internal/midi"
)

// ContextID identifies a registered context.
type ContextID uint8

// Requirements declares which configured capabilities a context needs.
// Validated against the app's configuration at Begin; a mismatch blocks
// startup.
type Requirements struct {
	Buttons bool
	Encoder bool
	MIDI    bool
}

// SatisfiedBy reports whether every required capability is present in caps.
func (r Requirements) SatisfiedBy(caps Requirements) bool {
	return len(r.missing(caps)) == 0
}

func (r Requirements) missing(caps Requirements) []string {
	var m []string
	if r.Buttons && !caps.Buttons {
		m = append(m, "buttons")
	}
	if r.Encoder && !caps.Encoder {
		m = append(m, "encoder")
	}
	if r.MIDI && !caps.MIDI {
		m = append(m, "midi")
	}
	return m
}

// Context is an application mode with its own lifecycle and bindings.
// A context owns no hardware directly; while active it reaches hardware
// only through the API passed to Initialize.
type Context interface {
	// Requirements declares the capabilities this context needs.
	Requirements() Requirements

	// Initialize registers the context's bindings through the API. A
	// failure is fatal to startup and is not retried.
	Initialize(api *API) error

	// Update runs once per tick, after gesture dispatch.
	Update(now time.Time)

	// Cleanup runs before a different context becomes active.
	Cleanup()
}

// API is the hardware surface a context sees while active. It wraps the
// binding registry and the configured output transports.
type API struct {
	registry *input.Registry
	out      midi.Output
}

// NewAPI creates an API over the given registry and MIDI output.
func NewAPI(registry *input.Registry, out midi.Output) *API {
	return &API{registry: registry, out: out}
}

// OnButton starts a fluent binding chain for the given button.
func (a *API) OnButton(id input.ButtonID) input.ButtonSelection {
	return a.registry.OnButton(id)
}

// MIDI returns the configured MIDI output.
func (a *API) MIDI() midi.Output {
	return a.out
}

// registration pairs a context with its display name.
type registration struct {
	ctx  Context
	name string
}

// Manager owns the set of registered contexts and tracks which one is
// active. Switching invokes Cleanup on the outgoing context, clears its
// bindings, and runs Initialize on the incoming one before any further
// dispatch ticks.
type Manager struct {
	contexts  map[ContextID]registration
	order     []ContextID
	active    ContextID
	hasActive bool
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{contexts: make(map[ContextID]registration)}
}

// Register associates a context with an id and display name. Registration
// order determines which context Begin activates first.
func (m *Manager) Register(id ContextID, name string, ctx Context) error {
	if _, ok := m.contexts[id]; ok {
		return fmt.Errorf("%w: %d (%s)", ErrDuplicateContext, id, name)
	}
	m.contexts[id] = registration{ctx: ctx, name: name}
	m.order = append(m.order, id)
	return nil
}

// Validate checks every registered context's Requirements against the
// configured capabilities.
func (m *Manager) Validate(caps Requirements) error {
	for _, id := range m.order {
		reg := m.contexts[id]
		if missing := reg.ctx.Requirements().missing(caps); len(missing) > 0 {
			return fmt.Errorf("%w: context %q needs %s", ErrRequirementNotMet, reg.name, strings.Join(missing, ", "))
		}
	}
	return nil
}

// Activate makes the given context active: Cleanup on the outgoing context,
// clear its bindings, Initialize the incoming one.
func (m *Manager) Activate(id ContextID, api *API) error {
	incoming, ok := m.contexts[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownContext, id)
	}

	if m.hasActive {
		if m.active == id {
			return nil
		}
		m.contexts[m.active].ctx.Cleanup()
	}
	api.registry.Clear()

	if err := incoming.ctx.Initialize(api); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrContextInit, incoming.name, err)
	}

	m.active = id
	m.hasActive = true
	return nil
}

// Active returns the active context, or nil if none is active.
func (m *Manager) Active() Context {
	if !m.hasActive {
		return nil
	}
	return m.contexts[m.active].ctx
}

// ActiveID returns the active context's id. Only meaningful when a context
// is active.
func (m *Manager) ActiveID() (ContextID, bool) {
	return m.active, m.hasActive
}

// ActiveName returns the active context's display name, or "" if none.
func (m *Manager) ActiveName() string {
	if !m.hasActive {
		return ""
	}
	return m.contexts[m.active].name
}

// First returns the first registered context id.
func (m *Manager) First() (ContextID, bool) {
	if len(m.order) == 0 {
		return 0, false
	}
	return m.order[0], true
}

// Len returns the number of registered contexts.
func (m *Manager) Len() int {
	return len(m.order)
}
