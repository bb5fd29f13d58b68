package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macropower/gcm/pkg/config"
)

var (
	// ErrUnknownOutputFormat is returned for unsupported --output values.
	ErrUnknownOutputFormat = errors.New("unknown output format")

	outputFormats = []string{"json", "yaml"}
)

type ShowArgs struct {
	*RootArgs

	Output string
	Schema bool
}

func (sa *ShowArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&sa.Output, "output", "o", "json",
		fmt.Sprintf("Output format, one of: %s", outputFormats))
	cmd.Flags().BoolVar(&sa.Schema, "schema", false, "Print the JSON schema of the configuration file instead")

	err := cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(outputFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewShowCmd(ra *RootArgs) *cobra.Command {
	sa := &ShowArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "show-config",
		Short: "Print the stored profiles and rules",
		Example: `  gcm show-config
  gcm show-config -o yaml
  gcm show-config --schema > gcm.schema.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sa.run(cmd)
		},
	}
	sa.AddFlags(cmd)

	return cmd
}

func (sa *ShowArgs) run(cmd *cobra.Command) error {
	format := strings.ToLower(sa.Output)
	if !slices.Contains(outputFormats, format) {
		return fmt.Errorf("%w: %q", ErrUnknownOutputFormat, sa.Output)
	}

	if sa.Schema {
		data, err := config.Schema()
		if err != nil {
			return err
		}

		return highlight(cmd.OutOrStdout(), string(data)+"\n", "json")
	}

	s, _, err := sa.load()
	if err != nil {
		return err
	}

	doc := config.NewDocument(s)

	var data []byte

	switch format {
	case "yaml":
		data, err = doc.YAML()
	default:
		data, err = doc.JSON()
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}

	return highlight(cmd.OutOrStdout(), string(data), format)
}
