package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/macropower/clipfix/pkg/clipboard"
	"github.com/macropower/clipfix/pkg/config"
	"github.com/macropower/clipfix/pkg/coordinator"
	"github.com/macropower/clipfix/pkg/history"
	"github.com/macropower/clipfix/pkg/log"
	"github.com/macropower/clipfix/pkg/mcp"
	"github.com/macropower/clipfix/pkg/recipe"
	"github.com/macropower/clipfix/pkg/sampler"
	"github.com/macropower/clipfix/pkg/terminal"
	"github.com/macropower/clipfix/pkg/ui/panel"
	"github.com/macropower/clipfix/pkg/yaml"
)

const (
	cmdExamples = `  # Rewrite the clipboard when "r" is pressed:
  clipfix

  # Rewrite the clipboard on every tick:
  clipfix --mode timer --tick 500ms

  # Reload recipes when the config file changes:
  clipfix --watch

  # Expose the recipes to an MCP client over HTTP:
  clipfix --serve-mcp localhost:8080

  # Serve MCP over stdio without the panel:
  clipfix --serve-mcp -

  # Rewrite the clipboard once and exit:
  clipfix fix

  # Rewrite stdin and print a diff:
  echo "https://www.reddit.com/r/golang" | clipfix fix --stdin --diff`
)

type RunArgs struct {
	*RootArgs

	Mode        string
	ServeMCP    string
	Tick        time.Duration
	History     bool
	Watch       bool
	WriteConfig bool
	ShowConfig  bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.Mode, "mode", "",
		fmt.Sprintf("Rewrite trigger, one of: %s", coordinator.AllModes))
	cmd.Flags().DurationVar(&ra.Tick, "tick", 0, "Interval between ticks")
	cmd.Flags().StringVar(&ra.ServeMCP, "serve-mcp", "", `Serve the MCP server at the specified address ("-" for stdio)`)
	cmd.Flags().BoolVar(&ra.History, "history", false, "Record applied rewrites in the history database")
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Reload recipes when the configuration changes")
	cmd.Flags().BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration files and exit")
	cmd.Flags().BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")

	modes := make([]string, 0, len(coordinator.AllModes))
	for _, m := range coordinator.AllModes {
		modes = append(modes, m.String())
	}

	must(cmd.RegisterFlagCompletionFunc("mode",
		cobra.FixedCompletions(modes, cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Default command, watch the keyboard and rewrite the clipboard",
		Example: cmdExamples,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

// applyOverrides applies flag values on top of cfg.
func (ra *RunArgs) applyOverrides(cfg *config.Config) error {
	if ra.Mode != "" {
		cfg.Mode = ra.Mode
	}
	if ra.Tick > 0 {
		cfg.TickInterval = &config.Duration{Duration: ra.Tick}
	}
	if ra.History {
		cfg.History.Enabled = true
	}

	err := cfg.Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	return nil
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	configPath := ra.Path()

	if ra.WriteConfig {
		return config.WriteDefaultConfig(configPath, true)
	}

	cfg, cl, err := loadConfig(ra.RootArgs)
	if err != nil {
		return err
	}

	err = ra.applyOverrides(cfg)
	if err != nil {
		return err
	}

	if ra.ShowConfig {
		return showConfig(cmd.OutOrStdout(), cfg, cl)
	}

	stopTracing, err := startTracing(cmd.Context(), ra.RootArgs)
	if err != nil {
		return err
	}
	defer stopTracing()

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.History.ResolvePath(configPath))
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}

		defer func() {
			err := store.Close()
			if err != nil {
				slog.Error("close history", slog.Any("err", err))
			}
		}()
	}

	if ra.ServeMCP == mcp.StdioAddress {
		return runHeadless(cmd.Context(), ra, cfg, store)
	}

	return runPanel(cmd, ra, cfg, cl, store)
}

// runHeadless serves MCP over stdio. Stdin carries the protocol, so no panel
// is shown and OSC 52 sequences go to stderr.
func runHeadless(ctx context.Context, ra *RunArgs, cfg *config.Config, store *history.Store) error {
	clip := clipboard.NewSystem()
	if cfg.UI.OSC52Enabled() {
		clip = clipboard.NewSystem(clipboard.WithOSC52(os.Stderr))
	}

	recipes := &liveRecipes{}
	recipes.SetRecipes(cfg.Recipes)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	err := startWatcher(gctx, g, ra, recipes)
	if err != nil {
		return err
	}

	srv := newMCPServer(ra.ServeMCP, clip, recipes, store)
	g.Go(func() error {
		defer cancel()

		return srv.Serve(gctx)
	})

	err = g.Wait()
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	return nil
}

// runPanel runs the coordinator loop until the quit key is pressed. Logs are
// held in a buffer while the panel owns the terminal and written to stderr
// afterwards.
func runPanel(cmd *cobra.Command, ra *RunArgs, cfg *config.Config, cl *config.Loader, store *history.Store) error {
	t, err := terminal.Open(os.Stdin)
	if err != nil {
		return &coordinator.TerminalError{Op: "open", Err: err}
	}

	logBuf := log.NewRingBuffer(100)
	logHandler, err := log.NewHandler(logBuf, ra.LogLevel, ra.LogFormat)
	if err != nil {
		return errors.Join(fmt.Errorf("create log handler: %w", err), t.Close())
	}

	prevLogger := slog.Default()
	slog.SetDefault(slog.New(logHandler))

	defer func() {
		slog.SetDefault(prevLogger)
		flushLogs(cmd.ErrOrStderr(), logBuf)
	}()

	clip := clipboard.NewSystemFromEnv(cfg.UI.OSC52Enabled())
	p := panel.New(cmd.OutOrStdout(), panel.WithTheme(cl.GetTheme()), panel.WithSize(t.Size))

	opts := []coordinator.Opt{
		coordinator.WithMode(cfg.CoordinatorMode()),
		coordinator.WithRecipes(cfg.Recipes),
		coordinator.WithKeyMap(cfg.UI.KeyMap()),
		coordinator.WithTeardown(func() error {
			p.Clear()

			return t.Close()
		}),
	}
	if store != nil {
		opts = append(opts, coordinator.WithRecorder(store))
	}

	coord := coordinator.New(clip, p, opts...)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	err = startWatcher(gctx, g, ra, coord)
	if err != nil {
		return errors.Join(err, t.Close())
	}

	if ra.ServeMCP != "" {
		srv := newMCPServer(ra.ServeMCP, clip, coord, store)
		g.Go(func() error {
			return srv.Serve(gctx)
		})
	}

	stream := sampler.Start(gctx, t, sampler.WithInterval(cfg.Tick()))
	runErr := coord.Run(gctx, stream.Events())

	cancel()

	streamErr := stream.Stop()
	if errors.Is(streamErr, terminal.ErrClosed) {
		streamErr = nil
	}

	return errors.Join(runErr, streamErr, g.Wait())
}

type recipeStore interface {
	mcp.RecipeSource
	SetRecipes(rs []recipe.Recipe)
}

// liveRecipes is a [recipeStore] used when no coordinator is running.
type liveRecipes struct {
	rs atomic.Pointer[[]recipe.Recipe]
}

func (l *liveRecipes) Recipes() []recipe.Recipe {
	rs := l.rs.Load()
	if rs == nil {
		return nil
	}

	return *rs
}

func (l *liveRecipes) SetRecipes(rs []recipe.Recipe) {
	l.rs.Store(&rs)
}

// startWatcher reloads recipes into dst when the configuration file changes.
func startWatcher(ctx context.Context, g *errgroup.Group, ra *RunArgs, dst recipeStore) error {
	if !ra.Watch {
		return nil
	}

	w, err := config.NewWatcher(ra.Path(), func(c *config.Config) {
		dst.SetRecipes(c.Recipes)
	})
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	g.Go(func() error {
		return w.Run(ctx)
	})

	return nil
}

func newMCPServer(addr string, clip clipboard.Adapter, src mcp.RecipeSource, store *history.Store) *mcp.Server {
	var opts []mcp.ServerOpt
	if store != nil {
		opts = append(opts, mcp.WithRecorder(store))
	}

	return mcp.NewServer(addr, clip, src, opts...)
}

// loadConfig loads the configuration at ra's path. The default configuration
// is written first when no path was given.
func loadConfig(ra *RootArgs) (*config.Config, *config.Loader, error) {
	configPath := ra.Path()

	if ra.ConfigPath == "" {
		err := config.WriteDefaultConfig(configPath, false)
		if err != nil {
			slog.Warn("write default config", slog.Any("err", err))
		}
	}

	colored := term.IsTerminal(int(os.Stderr.Fd()))

	cl, err := config.NewLoaderFromFile(configPath, config.WithColor(colored))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", configPath, err)
	}

	cfg, err := cl.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", configPath, err)
	}

	slog.Debug("loaded config",
		slog.String("path", configPath),
		slog.Int("recipes", len(cfg.Recipes)),
	)

	return cfg, cl, nil
}

func showConfig(w io.Writer, cfg *config.Config, cl *config.Loader) error {
	yamlBytes, err := cfg.MarshalYAML()
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	profile := termenv.NewOutput(w).Profile

	pretty, err := yaml.Highlight(yamlBytes, cl.GetTheme().ChromaStyle, yaml.FormatterForProfile(profile))
	if err != nil {
		mustN(fmt.Fprint(w, string(yamlBytes)))

		return fmt.Errorf("highlight config: %w", err)
	}

	mustN(fmt.Fprint(w, pretty))

	return nil
}

func flushLogs(w io.Writer, buf *log.RingBuffer) {
	if buf.Dropped() > 0 {
		slog.Warn("dropped log entries", slog.Int("count", buf.Dropped()))
	}

	_, err := buf.WriteTo(w)
	if err != nil {
		panic(err)
	}
}
