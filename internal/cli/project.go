package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewProjectCommand creates the project command group.
func NewProjectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create, list, rename and delete report projects",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "create <name>",
		Short:         "Create an empty project and select it",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.projects.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created project %q\n", p.ProjectName)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List all projects with report counts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			current, _ := a.projects.Current()
			for _, p := range a.projects.List() {
				marker := " "
				if p.ProjectName == current.ProjectName {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d reports)\n", marker, p.ProjectName, len(p.ReportList))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "rename <old> <new>",
		Short:         "Rename a project",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.projects.Rename(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed %q to %q\n", args[0], args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a project and all its reports",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.projects.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted project %q\n", args[0])
			return nil
		},
	})

	return cmd
}

// resolveProject returns the --project flag value when set, otherwise the
// store's current selection.
func resolveProject(a *app, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	current, ok := a.projects.Current()
	if !ok {
		return "", fmt.Errorf("no projects exist yet; create one with `hazreport project create`")
	}
	return current.ProjectName, nil
}
