package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/gcm/pkg/rule"
	"github.com/macropower/gcm/pkg/store"
)

// ruleCompletion completes a profile name, then a directory.
func ruleCompletion(ra *RootArgs) cobra.CompletionFunc {
	profiles := profileCompletion(ra, 1)

	return func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		switch len(args) {
		case 0:
			return profiles(cmd, args, toComplete)
		case 1:
			return nil, cobra.ShellCompDirectiveFilterDirs
		}

		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

func NewAddRuleCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-rule <profile> <directory>",
		Short: "Use a profile for repositories under a directory",
		Long: `Use a profile for repositories under a directory.

The directory is stored exactly as given. Use ~ for the home directory, and
quote it so the shell does not expand it, e.g. '~/work/projects'.`,
		Example:           `  gcm add-rule work '~/work'`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: ruleCompletion(ra),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rule.New(args[0], args[1])
			if err != nil {
				return err
			}

			var added bool

			err = ra.update(func(s *store.Store) error {
				added, err = s.AddRule(r)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			st := newStyles(out)

			if !added {
				mustN(fmt.Fprintf(out, "Rule for profile '%s' and path '%s' already exists.\n", r.ProfileName, r.DirectoryPath))

				return nil
			}

			mustN(fmt.Fprintln(out, st.success.Render(
				fmt.Sprintf("Rule added: Use profile '%s' for directory '%s'", r.ProfileName, r.DirectoryPath),
			)))
			mustN(fmt.Fprintln(out, st.subtle.Render("Remember to run 'gcm apply-config' afterwards.")))

			return nil
		},
	}

	return cmd
}

func NewRemoveRuleCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "remove-rule <profile> <directory>",
		Short:             "Remove a rule (the directory must match exactly)",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: ruleCompletion(ra),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rule.Rule{ProfileName: args[0], DirectoryPath: args[1]}

			err := ra.update(func(s *store.Store) error {
				return s.RemoveRule(r)
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			st := newStyles(out)

			mustN(fmt.Fprintln(out, st.success.Render(
				fmt.Sprintf("Rule removed: Profile '%s' for directory '%s'", r.ProfileName, r.DirectoryPath),
			)))
			mustN(fmt.Fprintln(out, st.subtle.Render(applyReminder)))

			return nil
		},
	}

	return cmd
}

func NewListRulesCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-rules",
		Short: "List all rules in the order they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, err := ra.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			st := newStyles(out)

			rules := s.Rules()
			if len(rules) == 0 {
				mustN(fmt.Fprintln(out, "No rules found."))

				return nil
			}

			mustN(fmt.Fprintln(out, st.heading.Render("Rules:")))
			for _, r := range rules {
				line := fmt.Sprintf("- %s -> %s", r.DirectoryPath, st.command.Render(r.ProfileName))
				if _, ok := s.Profile(r.ProfileName); !ok {
					line += " " + st.warning.Render("(unknown profile)")
				}

				mustN(fmt.Fprintln(out, line))
			}

			return nil
		},
	}

	return cmd
}
