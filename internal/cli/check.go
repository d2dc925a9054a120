package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/clipfix/pkg/config"
	"github.com/macropower/clipfix/pkg/recipe"
)

// NewCheckCmd validates the configuration. Unlike the other commands, which
// skip invalid recipes, it fails when any recipe does not compile.
func NewCheckCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and compile every recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(ra)
			if err != nil {
				return err
			}

			err = recipe.Validate(cfg.Recipes)
			if err != nil {
				return fmt.Errorf("%w: %s:\n%w", config.ErrInvalidConfig, ra.Path(), err)
			}

			mustN(fmt.Fprintf(cmd.OutOrStdout(), "%s: %d recipes OK\n", ra.Path(), len(cfg.Recipes)))

			return nil
		},
	}

	bindEnvVars(cmd)

	return cmd
}
