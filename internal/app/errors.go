package app

import "errors"

// Configuration errors surfaced by Begin. All are fatal: the host must not
// enter the tick loop after a non-nil Begin. Hosts match with errors.Is.
var (
	// ErrAlreadyStarted is returned when Begin is called twice.
	ErrAlreadyStarted = errors.New("app already started")

	// ErrNoButtons is returned when the button capability is configured
	// without any button definitions.
	ErrNoButtons = errors.New("no buttons configured")

	// ErrDuplicateButton is returned when two button definitions share an id.
	ErrDuplicateButton = errors.New("duplicate button id")

	// ErrNoReader is returned when buttons are configured without a GPIO reader.
	ErrNoReader = errors.New("no gpio reader configured")

	// ErrNoContext is returned when Begin runs with no registered contexts.
	ErrNoContext = errors.New("no context registered")

	// ErrDuplicateContext is returned when two contexts share an id.
	ErrDuplicateContext = errors.New("duplicate context id")

	// ErrUnknownContext is returned when activating an unregistered context id.
	ErrUnknownContext = errors.New("unknown context id")

	// ErrRequirementNotMet is returned when a context declares a capability
	// the app was not configured with.
	ErrRequirementNotMet = errors.New("context requirement not met")

	// ErrContextInit is returned when a context's Initialize fails.
	ErrContextInit = errors.New("context initialize failed")

	// ErrNotStarted is returned when Update runs before a successful Begin.
	ErrNotStarted = errors.New("app not started")
)
