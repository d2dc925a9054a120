// Package terminal puts the terminal into raw mode and reads key presses.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

var (
	// ErrNotTerminal is returned when the input is not a terminal.
	ErrNotTerminal = errors.New("not a terminal")
	// ErrClosed is returned after the terminal is closed.
	ErrClosed = errors.New("terminal closed")
	// ErrNoKey is returned by Read when Poll did not find a key.
	ErrNoKey = errors.New("no key available")
)

// Error is returned when a terminal operation fails.
type Error struct {
	Err error
	Op  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("terminal %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type keyResult struct {
	err  error
	keys []string
}

// Terminal reads key presses from a terminal in raw mode.
//
// Keys are read by a background goroutine. [Terminal.Poll] waits for one,
// and [Terminal.Read] returns it. Poll and Read must be called from a single
// goroutine.
type Terminal struct {
	reader     cancelreader.CancelReader
	restoreErr error
	state      *term.State
	results    chan keyResult
	done       chan struct{}
	stopped    chan struct{}
	restore    func() error
	queue      []string
	fd         int
	restores   int
	restoreMu  sync.Mutex
	closeOnce  sync.Once
	restored   bool
}

// Open puts f into raw mode and starts reading keys from it. Call
// [Terminal.Close] to stop reading and restore the previous mode.
func Open(f *os.File) (*Terminal, error) {
	fd := int(f.Fd()) //nolint:gosec // G115: file descriptors fit in an int.
	if !term.IsTerminal(fd) {
		return nil, &Error{Op: "open", Err: ErrNotTerminal}
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, &Error{Op: "make raw", Err: err}
	}

	t, err := newTerminal(f, func() error {
		return term.Restore(fd, state)
	})
	if err != nil {
		_ = term.Restore(fd, state) //nolint:errcheck // Best effort.

		return nil, err
	}

	t.fd = fd
	t.state = state

	return t, nil
}

// FromReader reads keys from r without changing any terminal mode.
func FromReader(r io.Reader) (*Terminal, error) {
	return newTerminal(r, nil)
}

func newTerminal(r io.Reader, restore func() error) (*Terminal, error) {
	cr, err := cancelreader.NewReader(r)
	if err != nil {
		return nil, &Error{Op: "open reader", Err: err}
	}

	t := &Terminal{
		reader:  cr,
		restore: restore,
		results: make(chan keyResult, 16),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		fd:      -1,
	}

	go t.readLoop()

	return t, nil
}

func (t *Terminal) readLoop() {
	defer close(t.stopped)

	buf := make([]byte, 256)
	for {
		n, err := t.reader.Read(buf)
		if n > 0 {
			if !t.deliver(keyResult{keys: DecodeKeys(buf[:n])}) {
				return
			}
		}

		if err != nil {
			if errors.Is(err, cancelreader.ErrCanceled) {
				err = ErrClosed
			}

			t.deliver(keyResult{err: err})

			return
		}
	}
}

func (t *Terminal) deliver(r keyResult) bool {
	select {
	case t.results <- r:
		return true
	case <-t.done:
		return false
	}
}

// Poll reports whether a key press is available, waiting at most timeout.
func (t *Terminal) Poll(timeout time.Duration) (bool, error) {
	select {
	case <-t.done:
		return false, &Error{Op: "poll", Err: ErrClosed}
	default:
	}

	if len(t.queue) > 0 {
		return true, nil
	}

	var (
		r  keyResult
		ok bool
	)

	if timeout <= 0 {
		select {
		case r, ok = <-t.results:
		case <-t.done:
			return false, &Error{Op: "poll", Err: ErrClosed}
		default:
			return false, nil
		}
	} else {
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case r, ok = <-t.results:
		case <-t.done:
			return false, &Error{Op: "poll", Err: ErrClosed}
		case <-timer.C:
			return false, nil
		}
	}

	if !ok {
		return false, &Error{Op: "poll", Err: ErrClosed}
	}
	if r.err != nil {
		return false, &Error{Op: "read", Err: r.err}
	}

	t.queue = append(t.queue, r.keys...)

	return len(t.queue) > 0, nil
}

// Read returns the next key found by [Terminal.Poll].
func (t *Terminal) Read() (string, error) {
	if len(t.queue) == 0 {
		return "", ErrNoKey
	}

	k := t.queue[0]
	t.queue = t.queue[1:]

	return k, nil
}

// Size returns the terminal size. It returns 80x24 when the size is unknown.
func (t *Terminal) Size() (int, int) {
	if t.fd >= 0 {
		w, h, err := term.GetSize(t.fd)
		if err == nil && w > 0 && h > 0 {
			return w, h
		}
	}

	return 80, 24
}

// Restore returns the terminal to the mode it had before [Open]. Only the
// first call has an effect; later calls return the first result.
func (t *Terminal) Restore() error {
	t.restoreMu.Lock()
	defer t.restoreMu.Unlock()

	if t.restored {
		return t.restoreErr
	}

	t.restored = true
	if t.restore != nil {
		t.restores++

		if err := t.restore(); err != nil {
			t.restoreErr = &Error{Op: "restore", Err: err}
		}
	}

	return t.restoreErr
}

// Restores returns how many times the terminal mode was restored.
func (t *Terminal) Restores() int {
	t.restoreMu.Lock()
	defer t.restoreMu.Unlock()

	return t.restores
}

// Close stops reading keys and restores the terminal.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		close(t.done)

		if t.reader.Cancel() {
			<-t.stopped
		}
	})

	rerr := t.Restore()
	cerr := t.reader.Close()
	if cerr != nil && !errors.Is(cerr, os.ErrClosed) {
		return errors.Join(rerr, &Error{Op: "close", Err: cerr})
	}

	return rerr
}
