package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hazreport/internal/model"
)

// NewSettingsCommand creates the settings command group for the option lists.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage the configurable option lists",
		Long: `settings manages the four option lists used when filling in reports:
` + strings.Join(kindNames(), ", ") + `.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list [kind]",
		Short:         "Show one option list, or all of them",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			kinds := model.OptionKinds
			if len(args) == 1 {
				kind, err := model.ParseOptionKind(args[0])
				if err != nil {
					return err
				}
				kinds = []model.OptionKind{kind}
			}
			for _, kind := range kinds {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", kind)
				for _, v := range a.settings.List(kind) {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", v)
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "add <kind> <value>",
		Short:         "Append a value to an option list",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			kind, err := model.ParseOptionKind(args[0])
			if err != nil {
				return err
			}
			added, err := a.settings.Add(cmd.Context(), kind, args[1])
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(cmd.OutOrStdout(), "%q already present in %s, nothing to do\n", args[1], kind)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %q to %s\n", args[1], kind)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "remove <kind> <value>",
		Short:         "Remove a value from an option list",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			kind, err := model.ParseOptionKind(args[0])
			if err != nil {
				return err
			}
			removed, err := a.settings.Remove(cmd.Context(), kind, args[1])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "%q not present in %s, nothing to do\n", args[1], kind)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %q from %s\n", args[1], kind)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "reset",
		Short:         "Restore all option lists to their defaults",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.settings.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "option lists restored to defaults")
			return nil
		},
	})

	return cmd
}

func kindNames() []string {
	names := make([]string, 0, len(model.OptionKinds))
	for _, kind := range model.OptionKinds {
		names = append(names, string(kind))
	}
	return names
}
