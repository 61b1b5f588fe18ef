package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hazreport/internal/render"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:           "generate",
		Short:         "Render a project's reports into a delivery document",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			projectName, err := resolveProject(a, projectFlag)
			if err != nil {
				return err
			}
			renderer := &render.TextRenderer{OutDir: a.cfg.OutputDir}
			summary, err := a.projects.Generate(cmd.Context(), projectName, renderer)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().StringVarP(&projectFlag, "project", "p", "", "project name (default: current)")

	return cmd
}
