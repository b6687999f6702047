package gpio

import "errors"

// FakeReader is a test double that returns scripted GPIO samples.
type FakeReader struct {
	// Samples contains scripted raw levels, one slice per tick.
	// Each call to Read() consumes the next sample.
	Samples [][]int

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples [][]int) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() ([]int, error) {
	if f.ReadError != nil {
		return nil, f.ReadError
	}

	if len(f.Samples) == 0 {
		return nil, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}
