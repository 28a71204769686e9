package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsgonest/vuemeta/internal/generate"
)

func newRootCommand() *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "vuemeta [paths...]",
		Short: "Extract Vue component metadata (name, props, emits) as JSON",
		Long: `vuemeta type-checks Vue components and writes one JSON document per
component next to it (Button.vue -> Button.json). Paths may be files,
directories or doublestar globs.`,
		Example: `  vuemeta src/components/Button.vue
  vuemeta 'src/**/*.vue' --jobs 4
  vuemeta --config vuemeta.config.yaml --stdout`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.resolve(cmd, args)
			if err != nil {
				return err
			}
			opts, err := s.generateOptions(flags.stdout, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return runOnce(cmd, opts)
		},
	}
	flags.register(cmd)

	cmd.AddCommand(
		newWatchCommand(&flags),
		newMCPCommand(&flags),
		newVersionCommand(),
	)
	return cmd
}

// runOnce runs one generation and turns unit failures into an error so the
// process exits non-zero.
func runOnce(cmd *cobra.Command, opts generate.Options) error {
	report, err := generate.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d units failed", len(failed), len(report.Units))
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the vuemeta version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "vuemeta", version)
		},
	}
}
