// Package sampler produces a merged stream of key presses and periodic ticks.
//
// A [Sampler] waits for input with a deadline set by the next tick. Key
// presses are forwarded as [Input] events as soon as they arrive; a [Tick] is
// emitted whenever a full interval has elapsed since the previous tick, so
// ticks keep arriving while keys are pressed.
package sampler

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultInterval is the default tick interval.
	DefaultInterval = 250 * time.Millisecond
	// DefaultBuffer is the default capacity of the event channel.
	DefaultBuffer = 64
)

// Event is either an [Input] or a [Tick].
type Event interface {
	event()
}

// Input is a key press.
type Input struct {
	Key string
}

// Tick marks the passing of one tick interval.
type Tick struct{}

func (Input) event() {}
func (Tick) event()  {}

// InputSource is a source of key presses.
type InputSource interface {
	// Poll reports whether a key press is available, waiting at most timeout.
	Poll(timeout time.Duration) (bool, error)
	// Read returns the key press found by Poll.
	Read() (string, error)
}

// Sampler reads an [InputSource] and emits events.
type Sampler struct {
	src      InputSource
	now      func() time.Time
	interval time.Duration
	buffer   int
}

// Opt configures a [Sampler].
type Opt func(*Sampler)

// WithInterval sets the tick interval. Non-positive values are ignored.
func WithInterval(d time.Duration) Opt {
	return func(s *Sampler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithBuffer sets the capacity of the channel created by [Start].
func WithBuffer(n int) Opt {
	return func(s *Sampler) {
		if n >= 0 {
			s.buffer = n
		}
	}
}

// WithClock sets the function used to read the current time.
func WithClock(now func() time.Time) Opt {
	return func(s *Sampler) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a new [Sampler].
func New(src InputSource, opts ...Opt) *Sampler {
	s := &Sampler{
		src:      src,
		interval: DefaultInterval,
		buffer:   DefaultBuffer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Interval returns the tick interval.
func (s *Sampler) Interval() time.Duration {
	return s.interval
}

// Run sends events to out until ctx is cancelled or the input source fails.
// Events are sent in the order they are produced and are never dropped. Run
// closes out before returning.
func (s *Sampler) Run(ctx context.Context, out chan<- Event) error {
	defer close(out)

	last := s.now()

	for ctx.Err() == nil {
		remaining := max(0, s.interval-s.now().Sub(last))

		ok, err := s.src.Poll(remaining)
		if err != nil {
			return fmt.Errorf("poll input: %w", err)
		}

		if ok {
			key, err := s.src.Read()
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			if !send(ctx, out, Input{Key: key}) {
				return nil
			}
		}

		if s.now().Sub(last) >= s.interval {
			if !send(ctx, out, Tick{}) {
				return nil
			}

			last = s.now()
		}
	}

	return nil
}

func send(ctx context.Context, out chan<- Event, e Event) bool {
	select {
	case out <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// Stream is a running [Sampler].
type Stream struct {
	err    error
	events chan Event
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start runs a [Sampler] in a new goroutine.
func Start(ctx context.Context, src InputSource, opts ...Opt) *Stream {
	s := New(src, opts...)

	ctx, cancel := context.WithCancel(ctx)
	st := &Stream{
		events: make(chan Event, s.buffer),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(st.done)

		st.err = s.Run(ctx, st.events)
	}()

	return st
}

// Events returns the event channel. It is closed when the sampler stops.
func (st *Stream) Events() <-chan Event {
	return st.events
}

// Done is closed when the sampler goroutine has returned.
func (st *Stream) Done() <-chan struct{} {
	return st.done
}

// Stop cancels the sampler, waits for it to return, and returns its error.
// It is safe to call Stop more than once.
func (st *Stream) Stop() error {
	st.once.Do(st.cancel)
	<-st.done

	return st.err
}
