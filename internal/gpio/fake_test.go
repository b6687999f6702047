package gpio

import (
	"errors"
	"testing"
)

func sampleEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFakeReaderRead(t *testing.T) {
	samples := [][]int{
		{1, 0},
		{0, 1},
		{0, 0},
	}

	f := NewFakeReader(samples)

	for i, want := range samples {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if !sampleEqual(got, want) {
			t.Errorf("sample %d: expected %v, got %v", i, want, got)
		}
	}

	// Next read should repeat last sample
	got, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sampleEqual(got, samples[len(samples)-1]) {
		t.Errorf("repeat: expected %v, got %v", samples[len(samples)-1], got)
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	_, err := f.Read()
	if err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([][]int{{1, 1}})
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	if err == nil {
		t.Error("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderClose(t *testing.T) {
	f := NewFakeReader([][]int{{1, 1}})

	if f.Closed {
		t.Error("should not be closed initially")
	}

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeReaderReset(t *testing.T) {
	samples := [][]int{
		{1, 0},
		{0, 1},
	}

	f := NewFakeReader(samples)

	f.Read()
	f.Reset()

	got, _ := f.Read()
	if !sampleEqual(got, samples[0]) {
		t.Errorf("after reset: expected %v, got %v", samples[0], got)
	}
}
