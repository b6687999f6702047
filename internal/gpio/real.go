//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads GPIO from actual hardware using Linux GPIO character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines []*gpiocdev.Line
}

// NewRealReader requests the given pins as inputs on actual Raspberry Pi
// hardware. Buttons are normally-open to ground, so lines are requested with
// the internal pull-up: raw 1 = released, raw 0 = pressed.
func NewRealReader(pins []int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealReader{chip: chip}
	for _, pin := range pins {
		line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request pin %d: %w", pin, err)
		}
		r.lines = append(r.lines, line)
	}

	return r, nil
}

// Read returns the raw level of each pin, in request order.
func (r *RealReader) Read() ([]int, error) {
	levels := make([]int, len(r.lines))
	for i, line := range r.lines {
		v, err := line.Value()
		if err != nil {
			return nil, fmt.Errorf("read pin %d: %w", line.Offset(), err)
		}
		levels[i] = v
	}
	return levels, nil
}

// Close releases GPIO resources. Pins are reconfigured to input with
// pull-down (matching Pi boot defaults) before closing so external hardware
// sees a clean state across restarts.
func (r *RealReader) Close() error {
	var errs []error

	for _, line := range r.lines {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", line.Offset(), err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", line.Offset(), err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
