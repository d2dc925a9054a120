package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/clipfix/pkg/clipboard"
	"github.com/macropower/clipfix/pkg/ui/preview"
)

func NewPreviewCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Browse recipes and preview their effect on the clipboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, cl, err := loadConfig(ra)
			if err != nil {
				return err
			}

			_, err = preview.Run(cmd.Context(), preview.Config{
				Clipboard: clipboard.NewSystemFromEnv(cfg.UI.OSC52Enabled()),
				Theme:     cl.GetTheme(),
				Recipes:   cfg.Recipes,
			},
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if err != nil {
				return fmt.Errorf("preview: %w", err)
			}

			return nil
		},
	}

	bindEnvVars(cmd)

	return cmd
}
