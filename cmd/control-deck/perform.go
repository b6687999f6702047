package main

import (
	"log"
	"time"

	"github.com/sweeney/control-deck/internal/app"
	"github.com/sweeney/control-deck/internal/input"
)

// Context ids.
const ctxPerform app.ContextID = 0

// MIDI assignments for the Perform context.
const (
	midiChannel = 0
	button1CC   = 20
	button2CC   = 21
)

// PerformContext is the default mode: button 1 is a momentary CC, button 2
// is a toggle CC with double-tap reset.
type PerformContext struct {
	api    *app.API
	toggle bool
}

// NewPerformContext creates the context in its reset state.
func NewPerformContext() *PerformContext {
	return &PerformContext{}
}

// Requirements declares the capabilities this context needs.
func (c *PerformContext) Requirements() app.Requirements {
	return app.Requirements{Buttons: true, MIDI: true}
}

// Initialize registers the context's bindings.
func (c *PerformContext) Initialize(api *app.API) error {
	c.api = api
	c.toggle = false

	// Button 1: momentary
	api.OnButton(1).Press().Then(func(e input.Event) {
		c.sendCC(button1CC, 127)
	})
	api.OnButton(1).Release().Then(func(e input.Event) {
		c.sendCC(button1CC, 0)
	})
	api.OnButton(1).LongPress(0).Then(func(e input.Event) {
		log.Printf("button 1 long press")
	})

	// Button 2: toggle, double tap resets
	api.OnButton(2).Press().Then(func(e input.Event) {
		c.toggle = !c.toggle
		value := uint8(0)
		if c.toggle {
			value = 127
		}
		c.sendCC(button2CC, value)
	})
	api.OnButton(2).DoubleTap(0).Then(func(e input.Event) {
		c.toggle = false
		c.sendCC(button2CC, 0)
	})

	log.Printf("perform context ready")
	return nil
}

// Update runs once per tick. Nothing to do here.
func (c *PerformContext) Update(now time.Time) {}

// Cleanup runs before another context becomes active.
func (c *PerformContext) Cleanup() {
	log.Printf("perform context cleanup")
}

func (c *PerformContext) sendCC(controller, value uint8) {
	if err := c.api.MIDI().SendCC(midiChannel, controller, value); err != nil {
		log.Printf("send cc %d=%d: %v", controller, value, err)
	}
}
