// Package coordinator implements the foreground loop that consumes key and
// tick events, renders status, and triggers clipboard rewrites.
//
// The loop has two states: [Running] and [Quitting]. In [ModeManual] the
// clipboard is rewritten when the trigger key is pressed, and each tick
// resets the status to [StatusWaiting]. In [ModeTimer] the clipboard is
// rewritten on every tick.
//
// Whatever the exit path (quit key, closed event stream, cancelled context,
// or a render failure) the teardown function runs exactly once.
package coordinator
