// Package history keeps the sliding window of recent samples.
package history

import "github.com/Dicklesworthstone/socmon/internal/model"

// DefaultSize is two minutes of samples at the 200ms cadence.
const DefaultSize = 600

// Store is a fixed-capacity ring of samples, oldest evicted first.
// It has a single owner (the UI loop) and is not safe for concurrent use.
type Store struct {
	data  []model.Sample
	head  int // next write position
	count int
}

// New creates a store holding at most size samples.
func New(size int) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	return &Store{data: make([]model.Sample, size)}
}

// Append adds s at the tail, overwriting the oldest sample when full.
func (h *Store) Append(s model.Sample) {
	h.data[h.head] = s
	h.head = (h.head + 1) % len(h.data)
	if h.count < len(h.data) {
		h.count++
	}
}

// Len returns the number of stored samples.
func (h *Store) Len() int { return h.count }

// Cap returns the capacity.
func (h *Store) Cap() int { return len(h.data) }

// At returns the i-th sample, oldest first. It panics if i is out of range.
func (h *Store) At(i int) model.Sample {
	if i < 0 || i >= h.count {
		panic("history: index out of range")
	}
	return h.data[h.index(i)]
}

// Latest returns the newest sample.
func (h *Store) Latest() (model.Sample, bool) {
	if h.count == 0 {
		return model.Sample{}, false
	}
	return h.At(h.count - 1), true
}

// Snapshot returns the samples in chronological order (oldest first).
func (h *Store) Snapshot() []model.Sample {
	out := make([]model.Sample, h.count)
	for i := range out {
		out[i] = h.data[h.index(i)]
	}
	return out
}

func (h *Store) index(i int) int {
	start := (h.head - h.count + len(h.data)) % len(h.data)
	return (start + i) % len(h.data)
}
