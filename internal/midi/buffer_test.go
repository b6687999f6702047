package midi

import (
	"testing"
)

func TestRingBufferEmptyDrain(t *testing.T) {
	rb := newRingBuffer(10)
	got := rb.drainAll()
	if got != nil {
		t.Errorf("expected nil from empty drain, got %d items", len(got))
	}
}

func TestRingBufferPushAndDrain(t *testing.T) {
	rb := newRingBuffer(10)
	for i := 0; i < 5; i++ {
		rb.push(bufferedMsg{topic: "t", payload: []byte{byte(i)}})
	}

	got := rb.drainAll()
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	for i := 0; i < 5; i++ {
		if got[i].payload[0] != byte(i) {
			t.Errorf("item %d: expected payload %d, got %d", i, i, got[i].payload[0])
		}
	}

	// Second drain should be empty
	got2 := rb.drainAll()
	if got2 != nil {
		t.Errorf("expected nil from second drain, got %d items", len(got2))
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	rb := newRingBuffer(4)
	for i := 0; i < 6; i++ {
		rb.push(bufferedMsg{topic: "t", payload: []byte{byte(i)}})
	}

	if rb.len() != 4 {
		t.Fatalf("expected len 4 after overflow, got %d", rb.len())
	}

	got := rb.drainAll()
	if len(got) != 4 {
		t.Fatalf("expected 4 items, got %d", len(got))
	}
	// Oldest two (0, 1) were dropped.
	for i := 0; i < 4; i++ {
		want := byte(i + 2)
		if got[i].payload[0] != want {
			t.Errorf("item %d: expected payload %d, got %d", i, want, got[i].payload[0])
		}
	}
}

func TestRingBufferReusableAfterDrain(t *testing.T) {
	rb := newRingBuffer(3)
	rb.push(bufferedMsg{payload: []byte{1}})
	rb.drainAll()

	rb.push(bufferedMsg{payload: []byte{2}})
	got := rb.drainAll()
	if len(got) != 1 || got[0].payload[0] != 2 {
		t.Errorf("expected single item with payload 2, got %v", got)
	}
}
