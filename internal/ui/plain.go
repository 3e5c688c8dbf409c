package ui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// PlainRenderer outputs plain text progress (for CI/pipes).
type PlainRenderer struct {
	mu     sync.Mutex
	out    io.Writer
	errors int
}

// NewPlainRenderer creates a plain text renderer.
func NewPlainRenderer(cfg Config) *PlainRenderer {
	return &PlainRenderer{out: cfg.Output}
}

// Start implements Renderer.
func (r *PlainRenderer) Start(ctx context.Context) error {
	return nil
}

// UpdateProgress implements Renderer.
func (r *PlainRenderer) UpdateProgress(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := event.Message
	if msg == "" {
		msg = event.CurrentFile
	}
	if event.Documents > 0 {
		rate := fmt.Sprintf("%s docs @ %.2f/s", humanize.Comma(int64(event.Documents)), event.Rate)
		if msg == "" {
			msg = rate
		} else {
			msg = msg + " (" + rate + ")"
		}
	}

	switch {
	case event.Total > 0:
		_, _ = fmt.Fprintf(r.out, "[%s] %d/%d - %s\n", event.Stage.Icon(), event.Current, event.Total, msg)
	case msg != "":
		_, _ = fmt.Fprintf(r.out, "[%s] %s\n", event.Stage.Icon(), msg)
	}
}

// AddError implements Renderer.
func (r *PlainRenderer) AddError(event ErrorEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors++
	prefix := "ERROR"
	if event.IsWarn {
		prefix = "WARN"
	}

	switch {
	case event.File != "" && event.Line > 0:
		_, _ = fmt.Fprintf(r.out, "%s: %s:%d: %v\n", prefix, event.File, event.Line, event.Err)
	case event.File != "":
		_, _ = fmt.Fprintf(r.out, "%s: %s: %v\n", prefix, event.File, event.Err)
	default:
		_, _ = fmt.Fprintf(r.out, "%s: %v\n", prefix, event.Err)
	}
}

// Complete implements Renderer.
func (r *PlainRenderer) Complete(stats CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.out, "Complete: %s documents from %d files in %s (%.1f docs/sec)\n",
		humanize.Comma(int64(stats.Documents)), stats.Files,
		stats.Duration.Round(100*time.Millisecond), stats.Rate())

	if stats.SkippedLines > 0 || stats.SkippedFiles > 0 || stats.FailedCommits > 0 {
		_, _ = fmt.Fprintf(r.out, "  Skipped: %d lines, %d files; failed commits: %d\n",
			stats.SkippedLines, stats.SkippedFiles, stats.FailedCommits)
	}
	if stats.Flagged > 0 {
		_, _ = fmt.Fprintf(r.out, "  Flagged NSFW: %s\n", humanize.Comma(int64(stats.Flagged)))
	}
	if stats.IndexPath != "" {
		_, _ = fmt.Fprintf(r.out, "  Index: %s\n", stats.IndexPath)
	}
}

// Stop implements Renderer.
func (r *PlainRenderer) Stop() error {
	return nil
}
