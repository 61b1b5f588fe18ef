package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hazreport/internal/model"
)

// NewVulnCommand creates the vuln command group for the knowledge base.
func NewVulnCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vuln",
		Short: "Manage the vulnerability knowledge base",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list [name]",
		Short:         "List entry names, or show one entry in full",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 1 {
				entry, ok := a.vulns.Get(args[0])
				if !ok {
					return fmt.Errorf("no knowledge base entry named %q", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "名称: %s\n问题描述: %s\n修复建议: %s\n",
					entry.VulName, entry.ProblemDescription, entry.VulModifyRepair)
				return nil
			}
			for _, name := range a.vulns.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	addCmd := &cobra.Command{
		Use:           "add <name>",
		Short:         "Add an entry (no-op if the name is taken)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if model.CanonicalName(args[0]) == "" {
				return fmt.Errorf("entry name must not be empty")
			}
			desc, _ := cmd.Flags().GetString("description")
			repair, _ := cmd.Flags().GetString("repair")
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			added, err := a.vulns.Add(cmd.Context(), model.VulnEntry{
				VulName:            args[0],
				ProblemDescription: desc,
				VulModifyRepair:    repair,
			})
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(cmd.OutOrStdout(), "entry %q already exists, nothing to do\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added entry %q\n", args[0])
			return nil
		},
	}
	addCmd.Flags().StringP("description", "d", "", "problem description")
	addCmd.Flags().StringP("repair", "r", "", "remediation advice")
	cmd.AddCommand(addCmd)

	upsertCmd := &cobra.Command{
		Use:           "upsert <name>",
		Short:         "Add an entry, replacing any existing one with the same name",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if model.CanonicalName(args[0]) == "" {
				return fmt.Errorf("entry name must not be empty")
			}
			desc, _ := cmd.Flags().GetString("description")
			repair, _ := cmd.Flags().GetString("repair")
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			replaced, err := a.vulns.Upsert(cmd.Context(), model.VulnEntry{
				VulName:            args[0],
				ProblemDescription: desc,
				VulModifyRepair:    repair,
			})
			if err != nil {
				return err
			}
			if replaced {
				fmt.Fprintf(cmd.OutOrStdout(), "replaced entry %q\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "added entry %q\n", args[0])
			}
			return nil
		},
	}
	upsertCmd.Flags().StringP("description", "d", "", "problem description")
	upsertCmd.Flags().StringP("repair", "r", "", "remediation advice")
	cmd.AddCommand(upsertCmd)

	renameCmd := &cobra.Command{
		Use:           "rename <old-name> <new-name>",
		Short:         "Rename an entry, optionally updating its fields",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, _ := cmd.Flags().GetString("description")
			repair, _ := cmd.Flags().GetString("repair")
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			existing, ok := a.vulns.Get(args[0])
			if !ok {
				return fmt.Errorf("no knowledge base entry named %q", args[0])
			}
			entry := model.VulnEntry{
				VulName:            args[1],
				ProblemDescription: existing.ProblemDescription,
				VulModifyRepair:    existing.VulModifyRepair,
			}
			if cmd.Flags().Changed("description") {
				entry.ProblemDescription = desc
			}
			if cmd.Flags().Changed("repair") {
				entry.VulModifyRepair = repair
			}
			renamed, err := a.vulns.Rename(cmd.Context(), args[0], entry)
			if err != nil {
				return err
			}
			if !renamed {
				return fmt.Errorf("cannot rename %q to %q: target name already in use", args[0], args[1])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed entry %q to %q\n", args[0], args[1])
			return nil
		},
	}
	renameCmd.Flags().StringP("description", "d", "", "problem description")
	renameCmd.Flags().StringP("repair", "r", "", "remediation advice")
	cmd.AddCommand(renameCmd)

	cmd.AddCommand(&cobra.Command{
		Use:           "remove <name>",
		Short:         "Remove an entry (no-op if absent)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			removed, err := a.vulns.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "no entry named %q, nothing to do\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed entry %q\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "reset",
		Short:         "Restore the knowledge base to its defaults",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.vulns.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "knowledge base restored to defaults")
			return nil
		},
	})

	return cmd
}
