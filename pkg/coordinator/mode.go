package coordinator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by [ParseMode] for unknown modes.
var ErrUnknownMode = errors.New("unknown mode")

// Mode selects what triggers a clipboard rewrite.
type Mode string

const (
	// ModeManual rewrites the clipboard when the trigger key is pressed.
	ModeManual Mode = "manual"
	// ModeTimer rewrites the clipboard on every tick.
	ModeTimer Mode = "timer"
)

// AllModes lists the supported modes.
var AllModes = []Mode{ModeManual, ModeTimer}

// ParseMode parses a [Mode]. The empty string is [ModeManual].
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeManual:
		return ModeManual, nil
	case ModeTimer:
		return ModeTimer, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) String() string {
	return string(m)
}

// Status describes the outcome of the last action.
type Status string

const (
	StatusWaiting        Status = "Waiting"
	StatusReplaced       Status = "Replaced"
	StatusNoMatch        Status = "No match"
	StatusClipboardError Status = "Clipboard error"
)

func (s Status) String() string {
	return string(s)
}

// State is the state of the coordinator loop.
type State int

const (
	Running State = iota
	Quitting
)

func (s State) String() string {
	return map[State]string{
		Running:  "running",
		Quitting: "quitting",
	}[s]
}
