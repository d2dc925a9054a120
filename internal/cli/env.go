package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envExempt lists flags that trigger one-shot actions. Reading them from a
// lingering CLIPFIX_* variable would make every invocation exit early, so
// they are only accepted on the command line.
var envExempt = map[string]bool{
	"help":         true,
	"version":      true,
	"write-config": true,
	"show-config":  true,
}

// bindEnvVars sets unset flags of cmd from CLIPFIX_<FLAG> environment
// variables, e.g. "--log-level" from CLIPFIX_LOG_LEVEL and "--serve-mcp" from
// CLIPFIX_SERVE_MCP. Arguments take precedence over environment variables,
// which take precedence over defaults. The variable name is appended to each
// flag's usage.
func bindEnvVars(cmd *cobra.Command) {
	cmd.Flags().VisitAll(bindFlagToEnv)
	cmd.PersistentFlags().VisitAll(bindFlagToEnv)
}

func bindFlagToEnv(flag *pflag.Flag) {
	if envExempt[flag.Name] {
		return
	}

	envName := flagToEnvName(flag.Name)

	if !strings.Contains(flag.Usage, envName) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, envName)
	}

	if flag.Changed {
		return
	}

	envValue, ok := os.LookupEnv(envName)
	if !ok {
		return
	}

	err := flag.Value.Set(envValue)
	if err != nil {
		// Invalid values keep the default, e.g. CLIPFIX_TICK=soon.
		slog.Error("ignoring invalid environment variable",
			slog.String("flag", flag.Name),
			slog.String("env", envName),
			slog.String("value", envValue),
			slog.Any("error", err),
		)
	}
}

// flagToEnvName converts a flag name to its environment variable name.
func flagToEnvName(flagName string) string {
	return strings.ToUpper(cmdName + "_" + strings.ReplaceAll(flagName, "-", "_"))
}
