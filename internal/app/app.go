package app

import (
	"fmt"
	"time"

	"github.com/sweeney/control-deck/internal/gpio"
	"github.com/sweeney/control-deck/internal/input"
	"github.com/sweeney/control-deck/internal/midi"
)

// App owns the context manager, binding registry, and driver handles. All
// hardware access flows through it; there is no global instance.
type App struct {
	reader   gpio.Reader
	defs     []input.ButtonDef
	debounce time.Duration
	timing   input.Timing
	out      midi.Output
	caps     Requirements

	contexts *Manager
	registry *input.Registry
	loop     *input.Loop
	api      *API
	started  bool
}

// RegisterContext associates a context with an id and display name. Must be
// called before Begin; the first registered context becomes active at Begin.
func (a *App) RegisterContext(id ContextID, name string, ctx Context) error {
	if a.started {
		return ErrAlreadyStarted
	}
	return a.contexts.Register(id, name, ctx)
}

// Capabilities returns the configured capability set.
func (a *App) Capabilities() Requirements {
	return a.caps
}

// Begin performs final validation and activates the first registered
// context. On error the host must not proceed to the tick loop.
func (a *App) Begin(now time.Time) error {
	if a.started {
		return ErrAlreadyStarted
	}

	if a.caps.Buttons {
		if len(a.defs) == 0 {
			return ErrNoButtons
		}
		if a.reader == nil {
			return ErrNoReader
		}
		seen := make(map[input.ButtonID]bool, len(a.defs))
		for _, def := range a.defs {
			if seen[def.ID] {
				return fmt.Errorf("%w: %d", ErrDuplicateButton, def.ID)
			}
			seen[def.ID] = true
		}
	}

	if a.contexts.Len() == 0 {
		return ErrNoContext
	}
	if err := a.contexts.Validate(a.caps); err != nil {
		return err
	}

	a.api = NewAPI(a.registry, a.out)
	a.loop = input.NewLoop(a.defs, a.debounce, a.timing, a.registry, now)

	first, _ := a.contexts.First()
	if err := a.contexts.Activate(first, a.api); err != nil {
		return err
	}
	a.loop.ReloadTimings()

	a.started = true
	return nil
}

// Update runs one tick: poll the GPIO reader, advance the dispatch loop
// (invoking bound handlers synchronously), then run the active context's
// Update. A read error skips the tick; the caller decides whether to log
// and continue or halt.
func (a *App) Update(now time.Time) error {
	if !a.started {
		return ErrNotStarted
	}

	if a.caps.Buttons {
		raw, err := a.reader.Read()
		if err != nil {
			return fmt.Errorf("gpio read: %w", err)
		}
		if err := a.loop.Tick(raw, now); err != nil {
			return err
		}
	}

	if ctx := a.contexts.Active(); ctx != nil {
		ctx.Update(now)
	}
	return nil
}

// SwitchContext makes a different registered context active. The outgoing
// context's Cleanup runs, its bindings are cleared, and the incoming
// context's Initialize runs before the next tick dispatches anything.
func (a *App) SwitchContext(id ContextID) error {
	if !a.started {
		return ErrNotStarted
	}
	if err := a.contexts.Activate(id, a.api); err != nil {
		return err
	}
	a.loop.ReloadTimings()
	return nil
}

// ActiveContextName returns the active context's display name.
func (a *App) ActiveContextName() string {
	return a.contexts.ActiveName()
}

// Buttons returns the configured button definitions, in configuration order.
func (a *App) Buttons() []input.ButtonDef {
	return a.defs
}

// ButtonLevels returns each button's current stable level (true = pressed),
// in configuration order. Nil before Begin.
func (a *App) ButtonLevels() []bool {
	if a.loop == nil {
		return nil
	}
	return a.loop.Levels()
}

// Counts returns the per-kind gesture counters.
func (a *App) Counts() input.EventCounts {
	if a.loop == nil {
		return input.EventCounts{}
	}
	return a.loop.Counts()
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or Begin). Nil before Begin or while disabled.
func (a *App) CheckHeartbeat(now time.Time, interval time.Duration) *input.HeartbeatData {
	if a.loop == nil {
		return nil
	}
	return a.loop.CheckHeartbeat(now, interval)
}

// MIDI returns the configured MIDI output, or nil.
func (a *App) MIDI() midi.Output {
	return a.out
}
