package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/clipfix/pkg/clipboard"
	"github.com/macropower/clipfix/pkg/config"
	"github.com/macropower/clipfix/pkg/coordinator"
	"github.com/macropower/clipfix/pkg/diff"
	"github.com/macropower/clipfix/pkg/history"
	"github.com/macropower/clipfix/pkg/recipe"
)

type FixArgs struct {
	*RootArgs

	Stdin   bool
	Diff    bool
	History bool
}

func NewFixArgs(rootArgs *RootArgs) *FixArgs {
	return &FixArgs{
		RootArgs: rootArgs,
	}
}

func (fa *FixArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&fa.Stdin, "stdin", false, "Rewrite stdin to stdout instead of the clipboard")
	cmd.Flags().BoolVarP(&fa.Diff, "diff", "d", false, "Print a unified diff of the rewrite")
	cmd.Flags().BoolVar(&fa.History, "history", false, "Record the rewrite in the history database")
}

func NewFixCmd(fa *FixArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Rewrite the clipboard once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return fix(cmd, fa)
		},
	}
	fa.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func fix(cmd *cobra.Command, fa *FixArgs) error {
	cfg, cl, err := loadConfig(fa.RootArgs)
	if err != nil {
		return err
	}

	stopTracing, err := startTracing(cmd.Context(), fa.RootArgs)
	if err != nil {
		return err
	}
	defer stopTracing()

	styles := cl.GetTheme().DiffStyles()
	w := cmd.OutOrStdout()

	if fa.Stdin {
		in, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}

		m := recipe.FindFix(string(in), cfg.Recipes)

		if fa.Diff {
			mustN(fmt.Fprint(w, diff.Highlight(diff.Unified(string(in), m.Output), styles)))

			return nil
		}

		mustN(fmt.Fprint(w, m.Output))

		return nil
	}

	res, err := clipboard.Replace(cmd.Context(), clipboard.NewSystemFromEnv(cfg.UI.OSC52Enabled()), cfg.Recipes)
	if err != nil {
		return fmt.Errorf("rewrite clipboard: %w", err)
	}

	if !res.Replaced {
		mustN(fmt.Fprintln(w, "No recipe changes the clipboard."))

		return nil
	}

	if fa.History || cfg.History.Enabled {
		err := recordFix(cmd, cfg, fa.Path(), res)
		if err != nil {
			return err
		}
	}

	if fa.Diff {
		mustN(fmt.Fprint(w, diff.Highlight(diff.Unified(res.Before, res.Match.Output), styles)))

		return nil
	}

	mustN(fmt.Fprintf(w, "Rewrote clipboard with %s.\n", res.Match.Recipe))

	return nil
}

func recordFix(cmd *cobra.Command, cfg *config.Config, configPath string, res clipboard.Result) error {
	store, err := history.Open(cfg.History.ResolvePath(configPath))
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}

	defer func() {
		err := store.Close()
		if err != nil {
			slog.Error("close history", slog.Any("err", err))
		}
	}()

	err = store.Record(cmd.Context(), res, coordinator.ModeManual)
	if err != nil {
		return fmt.Errorf("record rewrite: %w", err)
	}

	return nil
}
