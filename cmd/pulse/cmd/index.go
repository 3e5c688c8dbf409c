package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/pulse/internal/config"
	"github.com/Aman-CERP/pulse/internal/ingest"
	"github.com/Aman-CERP/pulse/internal/metrics"
	"github.com/Aman-CERP/pulse/internal/profiling"
	"github.com/Aman-CERP/pulse/internal/ui"
)

// indexFlags override configuration for a single job.
type indexFlags struct {
	pattern         string
	blocklist       string
	root            string
	commitThreshold int
	metricsTextfile string
}

func bindIndexFlags(cmd *cobra.Command, f *indexFlags) {
	cmd.Flags().StringVarP(&f.pattern, "pattern", "p", config.DefaultPattern, "Glob of JSONL files to index")
	cmd.Flags().StringVar(&f.blocklist, "blocklist", config.DefaultBlocklistPath, "NSFW domain list, one domain per line")
	cmd.Flags().StringVar(&f.root, "index-root", config.DefaultIndexRoot, "Directory receiving index_<timestamp> directories")
	cmd.Flags().IntVar(&f.commitThreshold, "commit-threshold", config.DefaultCommitThreshold, "Documents between periodic commits")
	cmd.Flags().StringVar(&f.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file after the run")
}

// apply copies explicitly set flags over cfg.
func (f indexFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("pattern") {
		cfg.Input.Pattern = f.pattern
	}
	if flags.Changed("blocklist") {
		cfg.Blocklist.Path = f.blocklist
	}
	if flags.Changed("index-root") {
		cfg.Index.Root = f.root
	}
	if flags.Changed("commit-threshold") {
		cfg.Index.CommitThreshold = f.commitThreshold
	}
	if flags.Changed("metrics-textfile") {
		cfg.Metrics.Textfile = f.metricsTextfile
	}
	return cfg.Validate()
}

func newIndexCmd(a *app) *cobra.Command {
	var flags indexFlags

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index crawl records into a new index",
		Long: `Index every JSONL file matching the input pattern into a new
index directory named index_<unix seconds> under the index root.

Malformed lines and unreadable files are skipped and counted. The job fails
when no files match, when the index directory cannot be created, or when the
final commit fails.

Examples:
  pulse index
  pulse index --pattern 'crawl/*.jsonl' --commit-threshold 5000
  pulse index --no-tui --metrics-textfile /var/lib/node_exporter/pulse.prom`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationJob: "true"},
		RunE: a.wrap(func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd, a, flags)
		}),
	}
	bindIndexFlags(cmd, &flags)
	return cmd
}

func runIndex(cmd *cobra.Command, a *app, flags indexFlags) error {
	// Ctrl+C cancels the job; documents from completed commits stay in the index.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := a.cfg
	if err := flags.apply(cmd, cfg); err != nil {
		return err
	}

	renderer := ui.NewRenderer(ui.NewConfig(cmd.OutOrStdout(),
		ui.WithForcePlain(a.noTUI),
		ui.WithNoColor(ui.DetectNoColor()),
		ui.WithPattern(cfg.Input.Pattern),
	))
	if err := renderer.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = renderer.Stop() }()

	pipeline, err := ingest.NewPipeline(ingest.Dependencies{
		NewSink:  ingest.BleveSinks(cfg.Index.Root),
		Renderer: renderer,
		Logger:   slog.Default(),
		Metrics:  metrics.NewJob(),
	})
	if err != nil {
		return err
	}

	_, err = pipeline.Run(ctx, ingest.Options{
		Pattern:         cfg.Input.Pattern,
		BlocklistPath:   cfg.Blocklist.Path,
		CommitThreshold: cfg.Index.CommitThreshold,
		PreviewLength:   cfg.Index.PreviewLength,
		DefaultLanguage: cfg.Index.DefaultLanguage,
		MetricsTextfile: cfg.Metrics.Textfile,
	})
	slog.Debug("memory_usage", slog.String("summary", profiling.MemSummary()))
	return err
}
