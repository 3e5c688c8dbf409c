package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/Aman-CERP/pulse/internal/derive"
	perrors "github.com/Aman-CERP/pulse/internal/errors"
	"github.com/Aman-CERP/pulse/internal/metrics"
	"github.com/Aman-CERP/pulse/internal/ui"
)

// DefaultCommitThreshold is the number of documents between periodic commits.
const DefaultCommitThreshold = 1000

// Sink is the write side of an index.
type Sink interface {
	// AddDocument buffers one document. It is not visible until Commit.
	AddDocument(ctx context.Context, doc derive.Document) error
	// Commit makes every buffered document durable and searchable.
	Commit(ctx context.Context) error
}

// Controller hands documents to a Sink and commits every Threshold
// successful additions.
type Controller struct {
	Sink      Sink
	Threshold int
	Renderer  ui.Renderer
	Logger    *slog.Logger
	Metrics   *metrics.Job
	Now       func() time.Time
}

// NewController returns a controller with the default threshold.
func NewController(sink Sink) *Controller {
	return &Controller{
		Sink:      sink,
		Threshold: DefaultCommitThreshold,
		Renderer:  ui.Nop{},
		Logger:    slog.Default(),
		Now:       time.Now,
	}
}

func (c *Controller) threshold() int {
	if c.Threshold <= 0 {
		return DefaultCommitThreshold
	}
	return c.Threshold
}

func (c *Controller) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Controller) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *Controller) renderer() ui.Renderer {
	if c.Renderer == nil {
		return ui.Nop{}
	}
	return c.Renderer
}

// Add hands doc to the sink. A sink failure skips the document and leaves
// the processed count unchanged. Every Threshold-th document triggers a
// periodic commit whose failure is logged and counted but never returned.
func (c *Controller) Add(ctx context.Context, run *JobRun, doc derive.Document) perrors.Outcome {
	if err := c.Sink.AddDocument(ctx, doc); err != nil {
		perr := perrors.Wrap(perrors.ErrCodeAddFailed, err).WithDetail("url", doc.URL)
		run.SkipLine(perr.Code)
		c.Metrics.LineSkipped(perr.Code)
		c.logger().Warn("document_add_failed",
			slog.String("url", doc.URL),
			slog.String("error", err.Error()))
		c.renderer().AddError(ui.ErrorEvent{Err: perr, IsWarn: true})
		return perrors.Skip(perr.Code, perr)
	}

	run.Processed++
	if doc.NSFW {
		run.Flagged++
	}
	c.Metrics.DocumentAdded()

	if run.Processed%c.threshold() == 0 {
		c.commitPeriodic(ctx, run)
	}
	return perrors.Succeeded()
}

func (c *Controller) commitPeriodic(ctx context.Context, run *JobRun) {
	err := c.Sink.Commit(ctx)
	c.Metrics.Committed(err)
	now := c.now()

	if err != nil {
		run.FailedCommits++
		perr := perrors.Wrap(perrors.ErrCodeCommitFailed, err)
		c.logger().Error("periodic_commit_failed",
			slog.Int("processed", run.Processed),
			slog.String("code", perr.Code),
			slog.String("error", err.Error()))
		c.renderer().AddError(ui.ErrorEvent{Err: perr, IsWarn: true})
		return
	}

	run.Commits++
	rate := run.Rate(now)
	c.logger().Info("batch_committed",
		slog.Int("processed", run.Processed),
		slog.Float64("docs_per_sec", rate))
	c.renderer().UpdateProgress(ui.ProgressEvent{
		Stage:     ui.StageIndexing,
		Documents: run.Processed,
		Rate:      rate,
	})
}

// Finish issues the final commit. It always commits, even when nothing is
// pending, and a failure is fatal.
func (c *Controller) Finish(ctx context.Context, run *JobRun) error {
	c.renderer().UpdateProgress(ui.ProgressEvent{
		Stage:     ui.StageCommitting,
		Documents: run.Processed,
		Rate:      run.Rate(c.now()),
		Message:   "final commit",
	})

	err := c.Sink.Commit(ctx)
	c.Metrics.Committed(err)
	if err != nil {
		run.FailedCommits++
		c.logger().Error("final_commit_failed",
			slog.Int("processed", run.Processed),
			slog.String("error", err.Error()))
		return perrors.New(perrors.ErrCodeFinalCommitFailed, "final commit failed", err).
			WithSuggestion("Documents after the last periodic commit were not written; rerun the job")
	}

	run.Commits++
	c.logger().Info("final_commit", slog.Int("processed", run.Processed))
	return nil
}
