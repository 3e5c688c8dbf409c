package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/pulse/internal/blocklist"
	"github.com/Aman-CERP/pulse/internal/derive"
	"github.com/Aman-CERP/pulse/internal/discovery"
	perrors "github.com/Aman-CERP/pulse/internal/errors"
	"github.com/Aman-CERP/pulse/internal/metrics"
	"github.com/Aman-CERP/pulse/internal/record"
	"github.com/Aman-CERP/pulse/internal/store"
	"github.com/Aman-CERP/pulse/internal/ui"
)

// IndexSink is a Sink that owns an index directory.
type IndexSink interface {
	Sink
	// Path is the index directory.
	Path() string
	Close() error
}

// SinkFactory creates the index for a job started at start.
type SinkFactory func(start time.Time) (IndexSink, error)

// Options configures a single run.
type Options struct {
	// Pattern is the input glob.
	Pattern string

	// BlocklistPath is the NSFW domain list. A missing file disables
	// domain matching.
	BlocklistPath string

	// CommitThreshold is the number of documents between periodic commits.
	CommitThreshold int

	PreviewLength   int
	DefaultLanguage string

	// MetricsTextfile, when set, receives the job metrics at the end of
	// the run whether it succeeded or not.
	MetricsTextfile string
}

// Result summarizes a finished or aborted run.
type Result struct {
	IndexPath string
	Run       JobRun
	Duration  time.Duration
}

// Dependencies contains the injected dependencies for Pipeline.
type Dependencies struct {
	// NewSink creates the job's index (required).
	NewSink SinkFactory

	// Renderer for progress display. Defaults to ui.Nop.
	Renderer ui.Renderer

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics may be nil.
	Metrics *metrics.Job

	// Now defaults to time.Now.
	Now func() time.Time
}

// Pipeline runs indexing jobs.
type Pipeline struct {
	newSink  SinkFactory
	renderer ui.Renderer
	logger   *slog.Logger
	metrics  *metrics.Job
	now      func() time.Time
}

// NewPipeline creates a Pipeline with injected dependencies.
func NewPipeline(deps Dependencies) (*Pipeline, error) {
	if deps.NewSink == nil {
		return nil, fmt.Errorf("sink factory is required")
	}

	p := &Pipeline{
		newSink:  deps.NewSink,
		renderer: deps.Renderer,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		now:      deps.Now,
	}
	if p.renderer == nil {
		p.renderer = ui.Nop{}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// Run executes one job. The returned Result is nil only when the job failed
// before an index was created.
func (p *Pipeline) Run(ctx context.Context, opts Options) (result *Result, err error) {
	start := p.now()
	run := NewJobRun(start)

	defer func() {
		p.metrics.Finish(p.now().Sub(start), err == nil, p.now())
		if werr := p.metrics.WriteTextfile(opts.MetricsTextfile); werr != nil {
			p.logger.Warn("metrics_write_failed",
				slog.String("path", opts.MetricsTextfile),
				slog.String("error", werr.Error()))
		}
	}()

	p.renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageDiscovering, Message: opts.Pattern})

	files, bl, err := p.prepare(opts)
	if err != nil {
		return nil, err
	}
	run.Files = files

	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}

	sink, err := p.newSink(start)
	if err != nil {
		if perrors.GetCode(err) == "" {
			err = perrors.Wrap(perrors.ErrCodeIndexCreate, err)
		}
		p.logger.Error("index_create_failed", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			p.logger.Warn("index_close_failed", slog.String("error", cerr.Error()))
		}
	}()
	run.IndexPath = sink.Path()

	p.logger.Info("indexing_started",
		slog.String("index", run.IndexPath),
		slog.Int("files", len(files)),
		slog.Int("blocklist_domains", bl.Len()))

	deriver := &derive.Deriver{
		Blocklist:       bl,
		PreviewLength:   opts.PreviewLength,
		DefaultLanguage: opts.DefaultLanguage,
	}
	ctrl := &Controller{
		Sink:      sink,
		Threshold: opts.CommitThreshold,
		Renderer:  p.renderer,
		Logger:    p.logger,
		Metrics:   p.metrics,
		Now:       p.now,
	}

	for i, path := range files {
		run.FileIndex = i
		p.renderer.UpdateProgress(ui.ProgressEvent{
			Stage:       ui.StageIndexing,
			Current:     i + 1,
			Total:       len(files),
			CurrentFile: path,
			Documents:   run.Processed,
			Rate:        run.Rate(p.now()),
		})

		ferr := p.indexFile(ctx, run, ctrl, deriver, path)
		if ctx.Err() != nil {
			return p.result(run), cancelled(ctx.Err())
		}
		if ferr != nil {
			run.SkippedFiles++
			p.logger.Warn("file_skipped",
				slog.String("file", path),
				slog.String("code", perrors.GetCode(ferr)),
				slog.String("error", ferr.Error()))
			p.renderer.AddError(ui.ErrorEvent{File: path, Err: ferr, IsWarn: true})
			continue
		}
		run.FilesProcessed++
		p.metrics.FileDone()
	}

	if err := ctrl.Finish(ctx, run); err != nil {
		return p.result(run), err
	}

	res := p.result(run)
	p.logger.Info("indexing_complete",
		slog.String("index", res.IndexPath),
		slog.Int("documents", run.Processed),
		slog.Int("files", run.FilesProcessed),
		slog.Int("skipped_lines", run.TotalSkippedLines()),
		slog.Int("skipped_files", run.SkippedFiles),
		slog.Int("flagged", run.Flagged),
		slog.Int("commits", run.Commits),
		slog.Int("failed_commits", run.FailedCommits),
		slog.Duration("duration", res.Duration))
	p.renderer.Complete(run.Stats(p.now()))
	return res, nil
}

// prepare discovers the input files and loads the blocklist concurrently.
// Only discovery can fail.
func (p *Pipeline) prepare(opts Options) ([]string, *blocklist.Blocklist, error) {
	var (
		files []string
		bl    *blocklist.Blocklist
		g     errgroup.Group
	)

	g.Go(func() error {
		var err error
		files, err = discovery.Discover(opts.Pattern)
		return err
	})
	g.Go(func() error {
		var outcome perrors.Outcome
		bl, outcome = blocklist.LoadOrEmpty(opts.BlocklistPath, p.logger)
		if !outcome.OK() {
			p.renderer.AddError(ui.ErrorEvent{File: opts.BlocklistPath, Err: outcome.Err, IsWarn: true})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		p.logger.Error("discovery_failed",
			slog.String("pattern", opts.Pattern),
			slog.String("error", err.Error()))
		return nil, nil, err
	}
	p.metrics.SetBlocklistSize(bl.Len())
	return files, bl, nil
}

// indexFile streams one file into the controller. Bad lines are skipped; an
// open or read failure abandons the rest of the file.
func (p *Pipeline) indexFile(ctx context.Context, run *JobRun, ctrl *Controller, deriver *derive.Deriver, path string) error {
	fileStart := p.now()

	f, err := os.Open(path)
	if err != nil {
		return perrors.New(perrors.ErrCodeInputUnreadable, "cannot open input file", err).
			WithDetail("file", path)
	}
	defer func() { _ = f.Close() }()

	reader := record.NewReader(f)
	docs := 0
	for {
		line, err := reader.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return perrors.New(perrors.ErrCodeInputUnreadable, "cannot read input file", err).
				WithDetail("file", path).
				WithDetail("line", fmt.Sprint(reader.LineCount()+1))
		}

		if !line.Outcome.OK() {
			p.skipLine(run, path, line)
			continue
		}

		if ctrl.Add(ctx, run, deriver.Derive(line.Record)).OK() {
			docs++
		}
	}

	p.logger.Info("file_indexed",
		slog.String("file", path),
		slog.Int("lines", reader.LineCount()),
		slog.Int("documents", docs),
		slog.Duration("duration", p.now().Sub(fileStart)))
	return nil
}

func (p *Pipeline) skipLine(run *JobRun, path string, line record.Line) {
	reason := line.Outcome.Reason
	run.SkipLine(reason)
	p.metrics.LineSkipped(reason)

	attrs := []any{
		slog.String("file", path),
		slog.Int("line", line.Number),
		slog.String("reason", reason),
	}
	if line.Outcome.Err != nil {
		attrs = append(attrs, slog.String("error", line.Outcome.Err.Error()))
	}
	p.logger.Warn("line_skipped", attrs...)
	p.renderer.AddError(ui.ErrorEvent{File: path, Line: line.Number, Err: line.Outcome.Err, IsWarn: true})
}

func (p *Pipeline) result(run *JobRun) *Result {
	return &Result{
		IndexPath: run.IndexPath,
		Run:       run.snapshot(),
		Duration:  run.Elapsed(p.now()),
	}
}

func cancelled(cause error) error {
	return perrors.New(perrors.ErrCodeCancelled, "indexing cancelled", cause)
}

// BleveSinks returns a factory creating bleve indexes under root.
func BleveSinks(root string) SinkFactory {
	return func(start time.Time) (IndexSink, error) {
		sink, err := store.CreateSink(root, start)
		if err != nil {
			return nil, err
		}
		return sink, nil
	}
}
