package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewReportCommand creates the report command group.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Add, update, list and delete reports in a project",
	}
	cmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "", "project name (default: current)")

	addCmd := &cobra.Command{
		Use:           "add -f <document>",
		Short:         "Add a report from a YAML/JSON document",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			projectName, err := resolveProject(a, projectFlag)
			if err != nil {
				return err
			}
			input, err := loadReportInput(file)
			if err != nil {
				return err
			}
			r, err := buildReport(input, a.vulns)
			if err != nil {
				return err
			}
			stored, err := a.projects.AddReport(cmd.Context(), projectName, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added report %s to %q (internal id %s)\n",
				stored.ReportID, projectName, stored.InternalID)
			return nil
		},
	}
	addCmd.Flags().StringP("file", "f", "", "report document file")
	_ = addCmd.MarkFlagRequired("file")
	cmd.AddCommand(addCmd)

	updateCmd := &cobra.Command{
		Use:           "update <internal-id> -f <document>",
		Short:         "Replace a report's fields, keeping its internal id",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			projectName, err := resolveProject(a, projectFlag)
			if err != nil {
				return err
			}
			input, err := loadReportInput(file)
			if err != nil {
				return err
			}
			r, err := buildReport(input, a.vulns)
			if err != nil {
				return err
			}
			stored, err := a.projects.UpdateReport(cmd.Context(), projectName, args[0], r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated report %s in %q\n", stored.ReportID, projectName)
			return nil
		},
	}
	updateCmd.Flags().StringP("file", "f", "", "report document file")
	_ = updateCmd.MarkFlagRequired("file")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List a project's reports",
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
			p, ok := a.projects.Get(projectName)
			if !ok {
				return fmt.Errorf("project %q does not exist", projectName)
			}
			for _, r := range p.ReportList {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  【%s】%s\n",
					r.InternalID, r.ReportID, r.HazardLevel, r.ReportName)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "delete <internal-id>",
		Short:         "Delete a report (no error if already gone)",
		Args:          cobra.ExactArgs(1),
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
			if err := a.projects.DeleteReport(cmd.Context(), projectName, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted report %s from %q\n", args[0], projectName)
			return nil
		},
	})

	return cmd
}
