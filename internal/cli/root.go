package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/macropower/gcm/pkg/config"
	"github.com/macropower/gcm/pkg/log"
	"github.com/macropower/gcm/pkg/store"
	"github.com/macropower/gcm/pkg/version"
)

const (
	cmdName = "gcm"
	cmdDesc = `Manage Git identity profiles and the directories they apply to.`

	cmdExamples = `  # Add a profile:
  gcm add-profile work --name "Alice" --email alice@corp.example

  # Use it for everything under ~/work:
  gcm add-rule work ~/work

  # Write the profile files and print the includeIf commands:
  gcm apply-config`

	applyReminder = "Remember to run 'gcm apply-config' and clean up your ~/.gitconfig manually if needed."
)

type RootArgs struct {
	LogLevel  string
	LogFormat string
	ConfigDir string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigDir, "config-dir", "", "Configuration directory (default ~/"+config.DirName+")")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagDirname("config-dir")
	if err != nil {
		panic(fmt.Errorf("mark config-dir flag: %w", err))
	}
}

// HomeDir returns the current user's home directory.
func (ra *RootArgs) HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return home, nil
}

// Gateway returns the persistence gateway for the configured directory.
func (ra *RootArgs) Gateway() (*config.Gateway, error) {
	dir := ra.ConfigDir
	if dir == "" {
		home, err := ra.HomeDir()
		if err != nil {
			return nil, err
		}

		dir = config.DefaultDir(home)
	}

	return config.NewGateway(dir), nil
}

// update loads the store, applies fn, and saves the result if fn succeeds.
func (ra *RootArgs) update(fn func(s *store.Store) error) error {
	gw, err := ra.Gateway()
	if err != nil {
		return err
	}

	s, err := gw.Load()
	if err != nil {
		return err
	}

	err = fn(s)
	if err != nil {
		return err
	}

	return gw.Save(s)
}

// load loads the store read-only.
func (ra *RootArgs) load() (*store.Store, *config.Gateway, error) {
	gw, err := ra.Gateway()
	if err != nil {
		return nil, nil, err
	}

	s, err := gw.Load()
	if err != nil {
		return nil, nil, err
	}

	return s, gw, nil
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mustN(fmt.Fprintf(cmd.OutOrStdout(), "Use '%s --help' to see available commands.\n", cmdName))

			return nil
		},
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewAddProfileCmd(args),
		NewRemoveProfileCmd(args),
		NewListProfilesCmd(args),
		NewAddRuleCmd(args),
		NewRemoveRuleCmd(args),
		NewListRulesCmd(args),
		NewApplyCmd(args),
		NewShowCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(rc *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), rc.LogLevel, rc.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))
		slog.Debug("starting", slog.String("version", version.Info()), slog.String("command", cmd.Name()))

		return nil
	}
}
