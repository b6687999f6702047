package input

import "time"

// bindingKey identifies one (button, event kind) slot in the registry.
type bindingKey struct {
	button ButtonID
	kind   EventKind
}

// Registry stores gesture handlers keyed by (button id, event kind).
// Registration happens during a context's initialize; the tick path only
// reads. Multiple handlers may share a slot and are invoked in registration
// order. Handlers cannot be removed individually; Clear drops everything,
// which is what a context switch does.
type Registry struct {
	handlers map[bindingKey][]Handler

	// Per-button timing overrides from LongPress(d) / DoubleTap(d)
	// registrations. Zero means "use the configured default".
	longPress map[ButtonID]time.Duration
	doubleTap map[ButtonID]time.Duration
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers:  make(map[bindingKey][]Handler),
		longPress: make(map[ButtonID]time.Duration),
		doubleTap: make(map[ButtonID]time.Duration),
	}
}

// OnButton starts a fluent binding chain for the given button:
//
//	reg.OnButton(1).Press().Then(func(e input.Event) { ... })
func (r *Registry) OnButton(id ButtonID) ButtonSelection {
	return ButtonSelection{registry: r, button: id}
}

// ButtonSelection is the intermediate stage of a binding chain with the
// button chosen but not yet the event kind.
type ButtonSelection struct {
	registry *Registry
	button   ButtonID
}

// Press selects the Press event.
func (s ButtonSelection) Press() EventSelection {
	return EventSelection{registry: s.registry, button: s.button, kind: Press}
}

// Release selects the Release event.
func (s ButtonSelection) Release() EventSelection {
	return EventSelection{registry: s.registry, button: s.button, kind: Release}
}

// LongPress selects the LongPress event. A positive threshold overrides the
// button's configured long-press threshold; the last registration wins.
func (s ButtonSelection) LongPress(threshold time.Duration) EventSelection {
	if threshold > 0 {
		s.registry.longPress[s.button] = threshold
	}
	return EventSelection{registry: s.registry, button: s.button, kind: LongPress}
}

// DoubleTap selects the DoubleTap event. A positive window overrides the
// button's configured double-tap window; the last registration wins.
func (s ButtonSelection) DoubleTap(window time.Duration) EventSelection {
	if window > 0 {
		s.registry.doubleTap[s.button] = window
	}
	return EventSelection{registry: s.registry, button: s.button, kind: DoubleTap}
}

// EventSelection is the final stage of a binding chain: button and event
// kind chosen, waiting for the handler.
type EventSelection struct {
	registry *Registry
	button   ButtonID
	kind     EventKind
}

// Then attaches the handler, completing the binding.
func (s EventSelection) Then(h Handler) {
	if h == nil {
		return
	}
	key := bindingKey{button: s.button, kind: s.kind}
	s.registry.handlers[key] = append(s.registry.handlers[key], h)
}

// Dispatch invokes every handler bound to the event's (button, kind) slot,
// in registration order, synchronously.
func (r *Registry) Dispatch(ev Event) {
	for _, h := range r.handlers[bindingKey{button: ev.Button, kind: ev.Kind}] {
		h(ev)
	}
}

// HandlerCount returns how many handlers are bound to (button, kind).
func (r *Registry) HandlerCount(button ButtonID, kind EventKind) int {
	return len(r.handlers[bindingKey{button: button, kind: kind}])
}

// TimingFor applies the button's registered overrides to the base timing.
func (r *Registry) TimingFor(button ButtonID, base Timing) Timing {
	t := base.withDefaults()
	if d := r.longPress[button]; d > 0 {
		t.LongPress = d
	}
	if d := r.doubleTap[button]; d > 0 {
		t.DoubleTapWindow = d
	}
	return t
}

// Clear removes every binding and timing override. Called when the owning
// context is deactivated.
func (r *Registry) Clear() {
	r.handlers = make(map[bindingKey][]Handler)
	r.longPress = make(map[ButtonID]time.Duration)
	r.doubleTap = make(map[ButtonID]time.Duration)
}
