package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/macropower/clipfix/pkg/history"
	"github.com/macropower/clipfix/pkg/ui/theme"
)

type HistoryArgs struct {
	*RootArgs

	Limit int
}

func NewHistoryArgs(rootArgs *RootArgs) *HistoryArgs {
	return &HistoryArgs{
		RootArgs: rootArgs,
	}
}

func (ha *HistoryArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&ha.Limit, "limit", "n", history.DefaultLimit, "Maximum number of rewrites to show")
}

func NewHistoryCmd(ha *HistoryArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded clipboard rewrites, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listHistory(cmd, ha)
		},
	}
	ha.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func listHistory(cmd *cobra.Command, ha *HistoryArgs) error {
	cfg, cl, err := loadConfig(ha.RootArgs)
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.History.ResolvePath(ha.Path()))
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}

	defer func() {
		err := store.Close()
		if err != nil {
			slog.Error("close history", slog.Any("err", err))
		}
	}()

	entries, err := store.List(cmd.Context(), ha.Limit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	writeHistory(cmd.OutOrStdout(), cl.GetTheme(), entries)

	return nil
}

func writeHistory(w io.Writer, t *theme.Theme, entries []history.Entry) {
	if len(entries) == 0 {
		mustN(fmt.Fprintln(w, "No rewrites recorded."))

		return
	}

	for _, e := range entries {
		mustN(fmt.Fprintf(w, "%s %s %s\n",
			t.SubtleStyle.Render(humanize.Time(e.Time)),
			t.SelectedStyle.Render(e.Recipe),
			t.SubtleStyle.Render("("+e.Mode+")"),
		))
		mustN(fmt.Fprintln(w, t.DiffDeletedStyle.Render("  - "+oneLine(e.Before))))
		mustN(fmt.Fprintln(w, t.DiffInsertedStyle.Render("  + "+oneLine(e.After))))
	}
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}
