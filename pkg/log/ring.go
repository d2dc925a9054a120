package log

import (
	"fmt"
	"io"
	"sync"
)

// RingBuffer is an [io.Writer] that keeps the most recent writes in memory.
// Each Write call is one entry. Once full, the oldest entry is dropped.
//
// While the panel owns the terminal nothing may be printed to it, so the
// default logger writes here and the entries are flushed on exit.
type RingBuffer struct {
	entries [][]byte
	start   int
	count   int
	dropped int
	mu      sync.Mutex
}

// NewRingBuffer creates a [RingBuffer] holding at most size entries.
// A non-positive size falls back to 256.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = 256
	}

	return &RingBuffer{entries: make([][]byte, size)}
}

// Write implements [io.Writer]. The data is copied.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	entry := make([]byte, len(p))
	copy(entry, p)

	rb.mu.Lock()
	defer rb.mu.Unlock()

	end := (rb.start + rb.count) % len(rb.entries)
	rb.entries[end] = entry

	if rb.count < len(rb.entries) {
		rb.count++
	} else {
		rb.start = (rb.start + 1) % len(rb.entries)
		rb.dropped++
	}

	return len(p), nil
}

// Entries returns the buffered entries, oldest first.
func (rb *RingBuffer) Entries() [][]byte {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	out := make([][]byte, 0, rb.count)
	for i := range rb.count {
		out = append(out, rb.entries[(rb.start+i)%len(rb.entries)])
	}

	return out
}

// Len returns the number of buffered entries.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	return rb.count
}

// Dropped returns how many entries were overwritten.
func (rb *RingBuffer) Dropped() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	return rb.dropped
}

// WriteTo implements [io.WriterTo]; it writes all entries in order.
func (rb *RingBuffer) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, e := range rb.Entries() {
		n, err := w.Write(e)
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("write log entry: %w", err)
		}
	}

	return total, nil
}
