package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/macropower/gcm/pkg/directive"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

type ApplyArgs struct {
	*RootArgs

	DryRun bool
	Diff   bool
	Copy   bool
}

func (aa *ApplyArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&aa.DryRun, "dry-run", false, "Show what would be written without touching any files")
	cmd.Flags().BoolVar(&aa.Diff, "diff", false, "Show a diff for profile files whose content changes")
	cmd.Flags().BoolVar(&aa.Copy, "copy", false, "Copy the generated commands to the clipboard")
}

func NewApplyCmd(ra *RootArgs) *cobra.Command {
	aa := &ApplyArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "apply-config",
		Short: "Write profile files and print the includeIf commands for ~/.gitconfig",
		Long: `Write one Git config file per profile and print a
'git config --global --add includeIf...' command for every rule.

Your ~/.gitconfig is never modified. Run the printed commands yourself, and
remove stale includeIf entries by hand when rules change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return aa.run(cmd)
		},
	}
	aa.AddFlags(cmd)

	return cmd
}

func (aa *ApplyArgs) run(cmd *cobra.Command) error {
	s, gw, err := aa.load()
	if err != nil {
		return err
	}

	home, err := aa.HomeDir()
	if err != nil {
		return err
	}

	var opts []directive.GeneratorOpt
	if aa.DryRun {
		opts = append(opts, directive.WithDryRun())
	}

	out := cmd.OutOrStdout()
	st := newStyles(out)

	mustN(fmt.Fprintln(out, st.heading.Render("Applying Git configuration based on rules...")))
	mustN(fmt.Fprintln(out, st.separator()))
	mustN(fmt.Fprintf(out, "Creating/Updating profile config files in: %s\n", gw.ProfilesDir()))

	res, err := directive.NewGenerator(home, gw.ProfilesDir(), opts...).Apply(s)
	if err != nil {
		return fmt.Errorf("apply configuration: %w", err)
	}

	verb := "Written"
	if aa.DryRun {
		verb = "Would write"
	}

	for _, f := range res.Fragments {
		mustN(fmt.Fprintf(out, "- %s: %s %s\n", verb, f.Path, st.subtle.Render("("+string(f.Status)+")")))

		if aa.Diff && f.Diff != "" {
			err := highlight(out, f.Diff, "diff")
			if err != nil {
				return err
			}
		}
	}

	mustN(fmt.Fprintln(out))
	mustN(fmt.Fprintln(out, st.separator()))
	mustN(fmt.Fprintln(out, st.heading.Render("Generated `includeIf` commands for your global .gitconfig:")))
	mustN(fmt.Fprintln(out, st.separator()))
	mustN(fmt.Fprintln(out, "NOTE: You need to run these commands manually."))
	mustN(fmt.Fprintln(out, "This tool avoids modifying your ~/.gitconfig directly to prevent conflicts."))
	mustN(fmt.Fprintln(out, "If you change rules, you might need to manually clean up old entries in ~/.gitconfig."))
	mustN(fmt.Fprintln(out, st.separator()))

	for _, c := range res.Commands() {
		mustN(fmt.Fprintln(out, st.command.Render(c)))
	}

	writeWarnings(cmd.ErrOrStderr(), res.Warnings)

	mustN(fmt.Fprintln(out))
	mustN(fmt.Fprintln(out, st.separator()))
	mustN(fmt.Fprintln(out, "Please run the commands printed above to update your ~/.gitconfig."))

	if aa.Copy {
		aa.copyCommands(cmd, res.Commands())
	}

	return nil
}

func (aa *ApplyArgs) copyCommands(cmd *cobra.Command, cmds []string) {
	if len(cmds) == 0 {
		return
	}

	err := writeClipboard(strings.Join(cmds, "\n") + "\n")
	if err != nil {
		slog.Debug("clipboard write failed", slog.Any("err", err))
		writeWarnings(cmd.ErrOrStderr(), []error{fmt.Errorf("copy to clipboard: %w", err)})

		return
	}

	st := newStyles(cmd.OutOrStdout())
	mustN(fmt.Fprintln(cmd.OutOrStdout(), st.success.Render(fmt.Sprintf("Copied %d command(s) to the clipboard.", len(cmds)))))
}

func writeWarnings[E error](w io.Writer, warnings []E) {
	st := newStyles(w)
	for _, warning := range warnings {
		mustN(fmt.Fprintln(w, st.warning.Render("Warning: "+warning.Error())))
	}
}
