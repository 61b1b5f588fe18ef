// Package cli wires the stores into the hazreport command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"hazreport/internal/config"
	"hazreport/internal/kv"
	"hazreport/internal/project"
	"hazreport/internal/settings"
	"hazreport/internal/vulndb"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the hazreport CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hazreport",
		Short: "Manage hazard-report projects and generate report documents",
		Long: `hazreport maintains locally persisted projects of hazard findings,
configurable option lists, and a vulnerability knowledge base, and renders
a project's reports into a delivery document.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel := slog.LevelInfo
			if opts.Verbose {
				logLevel = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})
			slog.SetDefault(slog.New(handler))
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewProjectCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewSettingsCommand(opts))
	cmd.AddCommand(NewVulnCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewDemoCommand(opts))

	return cmd
}

// app bundles the opened stores for one command invocation.
type app struct {
	cfg      config.Config
	db       *kv.DB
	projects *project.Store
	settings *settings.Store
	vulns    *vulndb.Store
}

// openApp loads config, opens the kv database, and opens all three stores.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	slog.Debug("opening database", "path", cfg.DatabasePath())
	db, err := kv.Open(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, db: db}
	closeOnErr := func(err error) (*app, error) {
		db.Close()
		return nil, err
	}

	projectsNS, err := db.Namespace("projects")
	if err != nil {
		return closeOnErr(err)
	}
	if a.projects, err = project.Open(projectsNS); err != nil {
		return closeOnErr(err)
	}

	settingsNS, err := db.Namespace("settings")
	if err != nil {
		return closeOnErr(err)
	}
	if a.settings, err = settings.Open(ctx, settingsNS); err != nil {
		return closeOnErr(err)
	}

	vulnNS, err := db.Namespace("vuln")
	if err != nil {
		return closeOnErr(err)
	}
	if a.vulns, err = vulndb.Open(ctx, vulnNS); err != nil {
		return closeOnErr(err)
	}

	return a, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
