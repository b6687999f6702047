// Package gpio provides GPIO input reading with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader samples the raw levels of the configured button pins.
type Reader interface {
	// Read returns the raw level (0 or 1) of each configured pin, in the
	// order the pins were given at construction time. No debouncing or
	// polarity handling happens here.
	Read() ([]int, error)

	// Close releases GPIO resources.
	Close() error
}

// Default pin assignments (BCM numbering) for the two-button deck.
const (
	DefaultPinButton1 = 5
	DefaultPinButton2 = 6
)
