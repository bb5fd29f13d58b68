package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/macropower/gcm/pkg/profile"
	"github.com/macropower/gcm/pkg/store"
)

// ErrMissingIdentity is returned when add-profile lacks a user name or email
// and cannot prompt for it.
var ErrMissingIdentity = errors.New("missing user name or email")

type AddProfileArgs struct {
	*RootArgs

	UserName  string
	UserEmail string
}

func (pa *AddProfileArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&pa.UserName, "name", "n", "", "Git user.name for the profile")
	cmd.Flags().StringVarP(&pa.UserEmail, "email", "e", "", "Git user.email for the profile")
}

// prompt asks for any missing identity fields when stdin is a terminal.
func (pa *AddProfileArgs) prompt(cmd *cobra.Command, name string) error {
	if pa.UserName != "" && pa.UserEmail != "" {
		return nil
	}
	if !isTerminal(cmd.InOrStdin()) {
		return fmt.Errorf("%w: use --name and --email", ErrMissingIdentity)
	}

	notEmpty := func(field string) func(string) error {
		return func(s string) error {
			if s == "" {
				return fmt.Errorf("%s must not be empty", field)
			}

			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("User name").
				Description(fmt.Sprintf("Git user.name for profile %q", name)).
				Value(&pa.UserName).
				Validate(notEmpty("user name")),
			huh.NewInput().
				Title("Email").
				Description(fmt.Sprintf("Git user.email for profile %q", name)).
				Value(&pa.UserEmail).
				Validate(notEmpty("email")),
		),
	).WithInput(cmd.InOrStdin()).WithOutput(cmd.ErrOrStderr())

	err := form.Run()
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}

	return nil
}

func NewAddProfileCmd(ra *RootArgs) *cobra.Command {
	pa := &AddProfileArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "add-profile <profile>",
		Short: "Add a new identity profile",
		Example: `  gcm add-profile work -n "Alice" -e alice@corp.example
  gcm add-profile personal   # prompts for name and email`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			err := pa.prompt(cmd, name)
			if err != nil {
				return err
			}

			p, err := profile.New(name, pa.UserName, pa.UserEmail)
			if err != nil {
				return err
			}

			err = pa.update(func(s *store.Store) error {
				return s.AddProfile(p)
			})
			if err != nil {
				return err
			}

			st := newStyles(cmd.OutOrStdout())
			mustN(fmt.Fprintln(cmd.OutOrStdout(), st.success.Render(fmt.Sprintf("Profile '%s' added successfully.", name))))

			return nil
		},
	}
	pa.AddFlags(cmd)

	return cmd
}

func NewRemoveProfileCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "remove-profile <profile>",
		Short:             "Remove a profile and every rule that uses it",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: profileCompletion(ra, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			var removed int

			err := ra.update(func(s *store.Store) error {
				var err error

				removed, err = s.RemoveProfile(name)

				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			st := newStyles(out)

			mustN(fmt.Fprintln(out, st.success.Render(fmt.Sprintf("Profile '%s' removed successfully.", name))))
			if removed > 0 {
				mustN(fmt.Fprintf(out, "Associated rules were also removed (%d).\n", removed))
			}
			mustN(fmt.Fprintln(out, st.subtle.Render(applyReminder)))

			return nil
		},
	}

	return cmd
}

func NewListProfilesCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-profiles",
		Short: "List all profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, err := ra.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			st := newStyles(out)

			profiles := s.Profiles()
			if len(profiles) == 0 {
				mustN(fmt.Fprintln(out, "No profiles found."))

				return nil
			}

			mustN(fmt.Fprintln(out, st.heading.Render("Profiles:")))
			for _, p := range profiles {
				mustN(fmt.Fprintf(out, "- %s: %s %s\n",
					st.command.Render(p.Name), p.UserName, st.subtle.Render("<"+p.UserEmail+">")))
			}

			return nil
		},
	}

	return cmd
}

// profileCompletion completes profile names for the first n positional
// arguments.
func profileCompletion(ra *RootArgs, n int) cobra.CompletionFunc {
	return func(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) >= n {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		gw, err := ra.Gateway()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		// Completion must not create the configuration as a side effect.
		doc, err := gw.Document()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		completions := make([]cobra.Completion, 0, len(doc.Profiles))
		for _, p := range doc.Profiles {
			completions = append(completions, cobra.CompletionWithDesc(p.Name, p.UserName+" <"+p.UserEmail+">"))
		}

		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}
