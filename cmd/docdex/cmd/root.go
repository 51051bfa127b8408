// Package cmd provides the CLI commands for docdex.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhollis/docdex/internal/config"
	"github.com/mhollis/docdex/internal/index"
	"github.com/mhollis/docdex/internal/logging"
	"github.com/mhollis/docdex/internal/scanner"
	"github.com/mhollis/docdex/internal/search"
	"github.com/mhollis/docdex/pkg/version"
)

var (
	debugMode      bool
	configFile     string
	loggingCleanup func()
)

// durationPrecision rounds durations for display.
const durationPrecision = time.Millisecond

// NewRootCmd creates the root command for the docdex CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docdex",
		Short: "Index and search Markdown documentation",
		Long: `docdex splits Markdown documents into heading-delimited sections,
builds an inverted index over them, and answers keyword queries
ranked by occurrence count.

Run 'docdex index ./docs' to see what would be indexed, or
'docdex query "S3 buckets" --root ./docs' to search.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.SetVersionTemplate("docdex version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.docdex/logs/")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: .docdex.yaml in the indexed directory)")
	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}
	cfg := logging.DefaultConfig()
	cfg.Level = "debug"
	cfg.WriteToStderr = false
	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return fmt.Errorf("setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("debug logging enabled", "log_file", logging.DefaultLogPath())
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig resolves the effective config for root, honoring the
// --config flag when set.
func loadConfig(root string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadFile(configFile)
	}
	return config.Load(root)
}

// buildIndex loads config for root and builds a snapshot from it.
func buildIndex(ctx context.Context, root string) (*config.Config, *index.Coordinator, *search.Snapshot, *index.Report, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	coord, err := index.NewCoordinator(slog.Default())
	if err != nil {
		return nil, nil, nil, nil, err
	}

	snap, report, err := coord.Build(ctx, index.Options{
		Root: root,
		Scan: &scanner.Options{
			Root:             root,
			Include:          cfg.Paths.Include,
			Exclude:          cfg.Paths.Exclude,
			RespectGitignore: true,
		},
		Store: cfg.StoreConfig(),
	})
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return cfg, coord, snap, report, nil
}

func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
