package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/muesli/termenv"
)

var (
	// ErrUnavailable is returned when no clipboard is available.
	ErrUnavailable = errors.New("clipboard unavailable")
	// ErrEmpty is returned when the clipboard holds no text.
	ErrEmpty = errors.New("clipboard is empty")
)

// Adapter gets and sets clipboard text.
type Adapter interface {
	Get() (string, error)
	Set(text string) error
}

// Error is returned when a clipboard operation fails.
type Error struct {
	Err error
	Op  string // "get" or "set".
}

func (e *Error) Error() string {
	return fmt.Sprintf("clipboard %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// System is an [Adapter] backed by the operating system clipboard.
//
// When OSC52 is enabled and a native write fails, the text is written to the
// terminal using an OSC 52 escape sequence instead.
type System struct {
	osc52 *termenv.Output
}

// SystemOpt configures a [System] adapter.
type SystemOpt func(*System)

// WithOSC52 enables the OSC 52 write fallback, writing sequences to w.
func WithOSC52(w io.Writer) SystemOpt {
	return func(s *System) {
		if w == nil {
			s.osc52 = nil
			return
		}

		s.osc52 = termenv.NewOutput(w)
	}
}

// NewSystem creates a new [System] adapter.
func NewSystem(opts ...SystemOpt) *System {
	s := &System{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewSystemFromEnv creates a [System] adapter with the OSC 52 fallback
// writing to stdout when enabled.
func NewSystemFromEnv(osc52 bool) *System {
	if !osc52 {
		return NewSystem()
	}

	return NewSystem(WithOSC52(os.Stdout))
}

// Get reads text from the system clipboard.
func (s *System) Get() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnavailable
	}

	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if text == "" {
		return "", ErrEmpty
	}

	return text, nil
}

// Set writes text to the system clipboard.
func (s *System) Set(text string) error {
	var err error
	if clipboard.Unsupported {
		err = ErrUnavailable
	} else {
		err = clipboard.WriteAll(text)
	}

	if err == nil {
		return nil
	}
	if s.osc52 == nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	s.osc52.Copy(text)

	return nil
}

// Memory is an in-process [Adapter]. It is safe for concurrent use.
type Memory struct {
	getErr error
	setErr error
	text   string
	sets   int
	mu     sync.Mutex
}

// NewMemory creates a [Memory] adapter holding text.
func NewMemory(text string) *Memory {
	return &Memory{text: text}
}

// Get returns the stored text.
func (m *Memory) Get() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return "", m.getErr
	}
	if m.text == "" {
		return "", ErrEmpty
	}

	return m.text, nil
}

// Set stores text.
func (m *Memory) Set(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setErr != nil {
		return m.setErr
	}

	m.text = text
	m.sets++

	return nil
}

// Text returns the stored text without error handling.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.text
}

// Sets returns the number of successful calls to [Memory.Set].
func (m *Memory) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sets
}

// FailGet makes subsequent calls to [Memory.Get] return err. A nil err
// clears the failure.
func (m *Memory) FailGet(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getErr = err
}

// FailSet makes subsequent calls to [Memory.Set] return err. A nil err
// clears the failure.
func (m *Memory) FailSet(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setErr = err
}
