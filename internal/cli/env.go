package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags that are never read from the environment.
var envExcludedFlags = map[string]bool{
	"help":    true,
	"version": true,
}

// bindEnvVars binds environment variables to the flags of cmd and all of its
// subcommands. Variable names are GCM_<FLAG_NAME>, with dashes replaced by
// underscores:
//
//   - "log-level" is read from GCM_LOG_LEVEL
//   - "config-dir" is read from GCM_CONFIG_DIR
//   - "dry-run" (apply-config) is read from GCM_DRY_RUN
//
// Arguments take precedence over environment variables, which take precedence
// over default values. Flag usage strings are extended with the variable
// name so it shows up in help output.
func bindEnvVars(cmd *cobra.Command) {
	cmd.PersistentFlags().VisitAll(bindFlagToEnv)
	cmd.LocalNonPersistentFlags().VisitAll(bindFlagToEnv)

	for _, sub := range cmd.Commands() {
		bindEnvVars(sub)
	}
}

func bindFlagToEnv(flag *pflag.Flag) {
	if envExcludedFlags[flag.Name] {
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
		// Keep the default value.
		slog.Error("failed to set flag from environment variable",
			slog.String("flag", flag.Name),
			slog.String("env", envName),
			slog.String("value", envValue),
			slog.Any("error", err),
		)
	}
}

// flagToEnvName converts a flag name to its environment variable name.
// Example: "log-level" -> "GCM_LOG_LEVEL".
func flagToEnvName(flagName string) string {
	envName := strings.ReplaceAll(flagName, "-", "_")
	return strings.ToUpper(cmdName + "_" + envName)
}
