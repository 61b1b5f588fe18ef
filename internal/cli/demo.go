package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDemoCommand creates the demo command, which seeds sample projects.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "demo",
		Short:         "Seed the database with sample projects and reports",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.projects.LoadDemo(cmd.Context())
			if err != nil {
				return err
			}
			if len(created) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "demo projects already present, nothing to do")
				return nil
			}
			for _, name := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "created demo project %q\n", name)
			}
			return nil
		},
	}
}
