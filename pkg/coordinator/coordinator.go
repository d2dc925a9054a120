package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/macropower/clipfix/pkg/clipboard"
	"github.com/macropower/clipfix/pkg/keys"
	"github.com/macropower/clipfix/pkg/log"
	"github.com/macropower/clipfix/pkg/recipe"
	"github.com/macropower/clipfix/pkg/sampler"
)

// View is the state shown by a [Renderer].
type View struct {
	LastRewrite time.Time
	Keys        KeyMap
	Mode        Mode
	Status      Status
	Detail      string
	Recipes     int
}

// Renderer draws a [View].
type Renderer interface {
	Render(v View) error
}

// RendererFunc adapts a function to a [Renderer].
type RendererFunc func(v View) error

func (f RendererFunc) Render(v View) error {
	return f(v)
}

// Recorder receives every applied rewrite.
type Recorder interface {
	Record(ctx context.Context, res clipboard.Result, mode Mode) error
}

// KeyMap holds the coordinator's key bindings.
type KeyMap struct {
	Quit    *keys.KeyBind
	Trigger *keys.KeyBind
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	quit := keys.NewBind("quit",
		keys.New("q"),
		keys.New("ctrl+c", keys.Hidden()),
	)
	trigger := keys.NewBind("rewrite clipboard",
		keys.New("r"),
	)

	return KeyMap{Quit: &quit, Trigger: &trigger}
}

// TerminalError is returned when rendering or restoring the terminal fails.
type TerminalError struct {
	Err error
	Op  string
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("terminal %s: %v", e.Op, e.Err)
}

func (e *TerminalError) Unwrap() error {
	return e.Err
}

// Coordinator is the foreground event loop.
type Coordinator struct {
	clip        clipboard.Adapter
	renderer    Renderer
	recorder    Recorder
	teardownErr error
	lastRewrite time.Time
	teardown    func() error
	now         func() time.Time
	logger      *slog.Logger
	recipes     atomic.Pointer[[]recipe.Recipe]
	keys        KeyMap
	mode        Mode
	status      Status
	detail      string
	state       State
	mu          sync.Mutex
	once        sync.Once
}

// Opt configures a [Coordinator].
type Opt func(*Coordinator)

// WithMode sets the operating mode.
func WithMode(m Mode) Opt {
	return func(c *Coordinator) {
		c.mode = m
	}
}

// WithRecipes sets the initial recipes.
func WithRecipes(rs []recipe.Recipe) Opt {
	return func(c *Coordinator) {
		c.SetRecipes(rs)
	}
}

// WithKeyMap sets the key bindings. Nil bindings keep their defaults.
func WithKeyMap(km KeyMap) Opt {
	return func(c *Coordinator) {
		def := DefaultKeyMap()
		if km.Quit != nil {
			def.Quit = km.Quit
		}
		if km.Trigger != nil {
			def.Trigger = km.Trigger
		}

		c.keys = def
	}
}

// WithTeardown sets the function that restores the terminal. It is called
// exactly once when the loop exits.
func WithTeardown(f func() error) Opt {
	return func(c *Coordinator) {
		c.teardown = f
	}
}

// WithRecorder sets a [Recorder] for applied rewrites.
func WithRecorder(r Recorder) Opt {
	return func(c *Coordinator) {
		c.recorder = r
	}
}

// WithClock sets the function used to read the current time.
func WithClock(now func() time.Time) Opt {
	return func(c *Coordinator) {
		c.now = now
	}
}

// WithLogger sets the logger. By default the logger comes from the context
// passed to [Coordinator.Run].
func WithLogger(l *slog.Logger) Opt {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// New creates a new [Coordinator].
func New(clip clipboard.Adapter, r Renderer, opts ...Opt) *Coordinator {
	c := &Coordinator{
		clip:     clip,
		renderer: r,
		keys:     DefaultKeyMap(),
		mode:     ModeManual,
		status:   StatusWaiting,
		now:      time.Now,
		teardown: func() error { return nil },
	}
	c.SetRecipes(nil)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetRecipes replaces the recipes used by the next rewrite. It is safe to
// call while [Coordinator.Run] is running.
func (c *Coordinator) SetRecipes(rs []recipe.Recipe) {
	cp := slices.Clone(rs)
	c.recipes.Store(&cp)
}

// Recipes returns the current recipes.
func (c *Coordinator) Recipes() []recipe.Recipe {
	return *c.recipes.Load()
}

// State returns the current loop state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Status returns the current status.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

// Run renders the view and handles events until the quit key is pressed,
// events is closed, or ctx is cancelled. The terminal is torn down before Run
// returns. A render failure is returned as a [*TerminalError].
func (c *Coordinator) Run(ctx context.Context, events <-chan sampler.Event) error {
	logger := c.log(ctx).With(slog.String("mode", c.mode.String()))
	logger.Debug("coordinator running")

	for {
		if err := c.renderer.Render(c.view()); err != nil {
			return errors.Join(
				&TerminalError{Op: "render", Err: err},
				c.quit(),
			)
		}

		select {
		case <-ctx.Done():
			logger.Debug("context done", slog.Any("err", ctx.Err()))

			return c.quit()

		case e, ok := <-events:
			if !ok {
				logger.Debug("event stream closed")

				return c.quit()
			}

			if c.handle(ctx, e) == Quitting {
				return c.quit()
			}
		}
	}
}

func (c *Coordinator) handle(ctx context.Context, e sampler.Event) State {
	switch e := e.(type) {
	case sampler.Input:
		c.log(ctx).Debug("key pressed", slog.String("key", e.Key))

		switch {
		case c.keys.Quit.Match(e.Key):
			return Quitting
		case c.mode == ModeManual && c.keys.Trigger.Match(e.Key):
			c.rewrite(ctx)
		}

	case sampler.Tick:
		if c.mode == ModeTimer {
			c.rewrite(ctx)
		} else {
			c.setStatus(StatusWaiting, "")
		}
	}

	return Running
}

func (c *Coordinator) log(ctx context.Context) *slog.Logger {
	if c.logger != nil {
		return c.logger
	}

	return log.WithContext(ctx)
}

func (c *Coordinator) rewrite(ctx context.Context) {
	logger := c.log(ctx)

	res, err := clipboard.Replace(ctx, c.clip, c.Recipes())

	detail := ""
	if n := len(res.Match.Skipped); n > 0 {
		detail = fmt.Sprintf("skipped %d invalid recipe(s): %v", n, res.Match.Skipped[0])
	}

	switch {
	case err != nil:
		// Timer mode retries every tick, so only the first failure in a row
		// is a warning.
		switch {
		case errors.Is(err, clipboard.ErrEmpty):
			logger.Debug("clipboard is empty")
		case c.Status() == StatusClipboardError:
			logger.Debug("clipboard rewrite still failing", slog.Any("err", err))
		default:
			logger.Warn("clipboard rewrite failed", slog.Any("err", err))
		}

		c.setStatus(StatusClipboardError, err.Error())

	case res.Replaced:
		c.mu.Lock()
		c.lastRewrite = c.now()
		c.mu.Unlock()

		if detail == "" {
			detail = "applied " + res.Match.Recipe.String()
		}

		c.setStatus(StatusReplaced, detail)

		if c.recorder != nil {
			if err := c.recorder.Record(ctx, res, c.mode); err != nil {
				logger.Warn("record rewrite", slog.Any("err", err))
			}
		}

	default:
		c.setStatus(StatusNoMatch, detail)
	}
}

func (c *Coordinator) setStatus(s Status, detail string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = s
	c.detail = detail
}

func (c *Coordinator) view() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return View{
		Mode:        c.mode,
		Status:      c.status,
		Detail:      c.detail,
		Recipes:     len(c.Recipes()),
		LastRewrite: c.lastRewrite,
		Keys:        c.keys,
	}
}

// quit tears down the terminal once and moves to [Quitting].
func (c *Coordinator) quit() error {
	c.once.Do(func() {
		c.mu.Lock()
		c.state = Quitting
		c.mu.Unlock()

		if err := c.teardown(); err != nil {
			c.teardownErr = &TerminalError{Op: "restore", Err: err}
		}
	})

	return c.teardownErr
}
