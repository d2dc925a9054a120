package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/macropower/clipfix/pkg/config"
	"github.com/macropower/clipfix/pkg/log"
	"github.com/macropower/clipfix/pkg/telemetry"
)

const (
	cmdName = "clipfix"
	cmdDesc = `Rewrite clipboard text with ordered regex recipes.`
)

type RootArgs struct {
	ConfigPath    string
	LogLevel      string
	LogFormat     string
	TraceEndpoint string
	TraceInsecure bool
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&ra.ConfigPath, "config", "", "Path to the clipfix configuration file")
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.TraceEndpoint, "trace-endpoint", "", "OTLP/gRPC endpoint to export traces to")
	cmd.PersistentFlags().
		BoolVar(&ra.TraceInsecure, "trace-insecure", false, "Disable TLS for the trace exporter")

	must(cmd.MarkPersistentFlagFilename("config", "yaml", "yml"))
	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
}

// Path returns the configuration path, falling back to [config.GetPath].
func (ra *RootArgs) Path() string {
	if ra.ConfigPath != "" {
		return ra.ConfigPath
	}

	return config.GetPath()
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	runArgs := NewRunArgs(args)

	runCmd := NewRunCmd(runArgs)
	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		Args:              runCmd.Args,
		RunE:              runCmd.RunE,
	}

	args.AddFlags(cmd)
	runArgs.AddFlags(cmd)
	cmd.AddCommand(
		runCmd,
		NewFixCmd(NewFixArgs(args)),
		NewPreviewCmd(args),
		NewHistoryCmd(NewHistoryArgs(args)),
		NewCheckCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.NewHandler(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		return nil
	}
}

// startTracing installs the trace exporter and returns a function that
// flushes it.
func startTracing(ctx context.Context, ra *RootArgs) (func(), error) {
	shutdown, err := telemetry.Setup(ctx, ra.TraceEndpoint, ra.TraceInsecure)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		err := shutdown(ctx)
		if err != nil {
			slog.Warn("shutdown tracing", slog.Any("err", err))
		}
	}, nil
}
