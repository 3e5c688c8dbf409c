// Package cmd provides the CLI commands for pulse.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/pulse/internal/config"
	"github.com/Aman-CERP/pulse/internal/logging"
	"github.com/Aman-CERP/pulse/internal/profiling"
	"github.com/Aman-CERP/pulse/internal/ui"
	"github.com/Aman-CERP/pulse/pkg/version"
)

// Command annotations read by the root hooks.
const (
	annotationSkipConfig = "pulse/skip-config"
	annotationJob        = "pulse/job"
)

// app carries global flags and per-invocation state between the root hooks
// and subcommands.
type app struct {
	configPath string
	debug      bool
	noTUI      bool
	profile    profiling.Options

	cfg            *config.Config
	loggingCleanup func()
	profiler       *profiling.Session
}

// NewRootCmd creates the root command for the pulse CLI. Without a
// subcommand it runs an indexing job.
func NewRootCmd() *cobra.Command {
	a := &app{}
	var jobFlags indexFlags

	cmd := &cobra.Command{
		Use:   "pulse",
		Short: "Index JSONL crawl output into a searchable full-text index",
		Long: `pulse reads crawl records from JSONL files, derives searchable fields,
flags documents from NSFW domains, and writes them to a new full-text index
under the index root.

Run 'pulse' in the directory holding the crawl output to index it, then
'pulse search' to query the newest index.`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{annotationJob: "true"},
		RunE: a.wrap(func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd, a, jobFlags)
		}),
	}
	cmd.SetVersionTemplate("pulse version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: .pulse.yaml in the working directory)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&a.noTUI, "no-tui", false, "Disable TUI mode, use plain text output")
	cmd.PersistentFlags().StringVar(&a.profile.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&a.profile.Heap, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&a.profile.Trace, "profile-trace", "", "Write execution trace to file")
	bindIndexFlags(cmd, &jobFlags)

	cmd.PersistentPreRunE = a.setup

	cmd.AddCommand(newIndexCmd(a))
	cmd.AddCommand(newSearchCmd(a))
	cmd.AddCommand(newIndexesCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// setup loads configuration, then starts logging and profiling.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[annotationSkipConfig] == "true" {
		return nil
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Logging.Level = "debug"
	}
	a.cfg = cfg

	logCfg := logging.Config{
		Level:     cfg.Logging.Level,
		FilePath:  cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
		Stderr:    cmd.ErrOrStderr(),
	}
	// The TUI owns the terminal; logs then go to the file only.
	if a.tuiActive(cmd) {
		logCfg.Stderr = nil
	}
	cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.loggingCleanup = cleanup

	if a.profile.Enabled() {
		a.profiler, err = profiling.Start(a.profile)
		if err != nil {
			return err
		}
	}

	slog.Debug("command_started",
		slog.String("command", cmd.CommandPath()),
		slog.String("version", version.Version))
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.configPath != "" {
		return config.LoadFile(a.configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.Load(wd)
}

// teardown stops profiling and closes the log file. It runs whether or not
// the command succeeded.
func (a *app) teardown() {
	if a.profiler != nil {
		if err := a.profiler.Stop(); err != nil {
			slog.Warn("profile_write_failed", slog.String("error", err.Error()))
		}
		a.profiler = nil
	}
	if a.loggingCleanup != nil {
		a.loggingCleanup()
		a.loggingCleanup = nil
	}
}

func (a *app) wrap(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.teardown()
		return fn(cmd, args)
	}
}

// tuiActive reports whether cmd will draw the interactive progress view.
func (a *app) tuiActive(cmd *cobra.Command) bool {
	return cmd.Annotations[annotationJob] == "true" &&
		!a.noTUI &&
		ui.IsTTY(cmd.OutOrStdout()) &&
		!ui.DetectCI()
}
