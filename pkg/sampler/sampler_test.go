package sampler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/clipfix/pkg/sampler"
)

// simSource is an [sampler.InputSource] running on simulated time. Poll
// advances the clock to the next scheduled key, or by the full timeout.
type simSource struct {
	start   time.Time
	cancel  context.CancelFunc
	pending string
	keys    []simKey
	polls   []time.Duration
	now     time.Duration
	stopAt  time.Duration
	mu      sync.Mutex
}

type simKey struct {
	key string
	at  time.Duration
}

func newSimSource(stopAt time.Duration, cancel context.CancelFunc, keys ...simKey) *simSource {
	return &simSource{
		start:  time.Unix(0, 0),
		cancel: cancel,
		keys:   keys,
		stopAt: stopAt,
	}
}

func (s *simSource) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.start.Add(s.now)
}

func (s *simSource) Poll(timeout time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.polls = append(s.polls, timeout)

	if s.now >= s.stopAt {
		s.cancel()

		return false, nil
	}

	if len(s.keys) > 0 && s.keys[0].at <= s.now+timeout {
		s.now = max(s.now, s.keys[0].at)
		s.pending = s.keys[0].key
		s.keys = s.keys[1:]

		return true, nil
	}

	s.now += timeout

	return false, nil
}

func (s *simSource) Read() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending, nil
}

func runSim(ctx context.Context, t *testing.T, src *simSource, opts ...sampler.Opt) []sampler.Event {
	t.Helper()

	out := make(chan sampler.Event, 1024)
	opts = append(opts, sampler.WithClock(src.Now))

	err := sampler.New(src, opts...).Run(ctx, out)
	require.NoError(t, err)

	events := []sampler.Event{}
	for e := range out {
		events = append(events, e)
	}

	return events
}

func TestRunOrdering(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	src := newSimSource(time.Second, cancel,
		simKey{key: "a", at: 100 * time.Millisecond},
		simKey{key: "b", at: 600 * time.Millisecond},
	)

	got := runSim(ctx, t, src)

	want := []sampler.Event{
		sampler.Input{Key: "a"},
		sampler.Tick{},
		sampler.Tick{},
		sampler.Input{Key: "b"},
		sampler.Tick{},
		sampler.Tick{},
	}
	assert.Equal(t, want, got)

	for _, d := range src.polls {
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, sampler.DefaultInterval)
	}
}

func TestRunTicksDuringContinuousInput(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	keys := []simKey{}
	for i := range 20 {
		keys = append(keys, simKey{key: "x", at: time.Duration(i) * 50 * time.Millisecond})
	}

	src := newSimSource(time.Second, cancel, keys...)
	got := runSim(ctx, t, src)

	var ticks, inputs int
	for _, e := range got {
		switch e.(type) {
		case sampler.Tick:
			ticks++
		case sampler.Input:
			inputs++
		}
	}

	assert.Equal(t, 4, ticks)
	assert.Equal(t, 20, inputs)
}

func TestRunRemainingIsFlooredAtZero(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	// Every clock read moves past the tick deadline.
	clock := &stepClock{step: 15 * time.Millisecond}
	src := &countSource{limit: 5, cancel: cancel}
	out := make(chan sampler.Event, 64)

	err := sampler.New(src,
		sampler.WithInterval(10*time.Millisecond),
		sampler.WithClock(clock.Now),
	).Run(ctx, out)
	require.NoError(t, err)

	require.Len(t, src.polls, 5)
	for _, d := range src.polls {
		assert.Equal(t, time.Duration(0), d)
	}

	ticks := 0
	for e := range out {
		assert.IsType(t, sampler.Tick{}, e)

		ticks++
	}

	// The tick after the final poll races with cancellation.
	assert.GreaterOrEqual(t, ticks, 4)
	assert.LessOrEqual(t, ticks, 5)
}

type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(c.step)

	return c.now
}

// countSource never has input, and cancels after limit polls.
type countSource struct {
	cancel context.CancelFunc
	polls  []time.Duration
	limit  int
}

func (s *countSource) Poll(timeout time.Duration) (bool, error) {
	s.polls = append(s.polls, timeout)
	if len(s.polls) >= s.limit {
		s.cancel()
	}

	return false, nil
}

func (s *countSource) Read() (string, error) {
	return "", nil
}

func TestRunInputError(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	out := make(chan sampler.Event, 1)

	err := sampler.New(errSource{err: errBoom}).Run(t.Context(), out)
	require.ErrorIs(t, err, errBoom)

	_, ok := <-out
	assert.False(t, ok, "channel should be closed")
}

type errSource struct {
	err error
}

func (s errSource) Poll(time.Duration) (bool, error) { return false, s.err }
func (s errSource) Read() (string, error)            { return "", s.err }

// idleSource never has input. It waits out the full timeout.
type idleSource struct{}

func (idleSource) Poll(timeout time.Duration) (bool, error) {
	time.Sleep(timeout)

	return false, nil
}

func (idleSource) Read() (string, error) {
	return "", nil
}

func TestStreamTickTiming(t *testing.T) {
	t.Parallel()

	interval := 20 * time.Millisecond
	tolerance := 200 * time.Millisecond

	st := sampler.Start(t.Context(), idleSource{}, sampler.WithInterval(interval))

	prev := time.Now()
	for range 3 {
		select {
		case e := <-st.Events():
			assert.IsType(t, sampler.Tick{}, e)
			assert.Less(t, time.Since(prev), interval+tolerance)

			prev = time.Now()
		case <-time.After(time.Second):
			require.FailNow(t, "timed out waiting for tick")
		}
	}

	require.NoError(t, st.Stop())
}

func TestStreamStopClosesEvents(t *testing.T) {
	t.Parallel()

	st := sampler.Start(t.Context(), idleSource{},
		sampler.WithInterval(5*time.Millisecond),
		sampler.WithBuffer(0),
	)

	require.NoError(t, st.Stop())
	require.NoError(t, st.Stop())

	select {
	case <-st.Done():
	default:
		require.FailNow(t, "sampler goroutine still running")
	}

	for range st.Events() {
		// Drain anything sent before cancellation.
	}
}

func TestStreamParentCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	st := sampler.Start(ctx, idleSource{}, sampler.WithInterval(5*time.Millisecond))

	cancel()

	select {
	case <-st.Done():
	case <-time.After(time.Second):
		require.FailNow(t, "sampler did not stop")
	}

	require.NoError(t, st.Stop())
}

func TestOptions(t *testing.T) {
	t.Parallel()

	s := sampler.New(idleSource{})
	assert.Equal(t, sampler.DefaultInterval, s.Interval())

	s = sampler.New(idleSource{}, sampler.WithInterval(-1))
	assert.Equal(t, sampler.DefaultInterval, s.Interval())

	s = sampler.New(idleSource{}, sampler.WithInterval(time.Second))
	assert.Equal(t, time.Second, s.Interval())
}
