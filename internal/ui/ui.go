// Package ui renders indexing job progress, either as a live terminal view
// or as plain log-style lines.
package ui

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Stage is the phase a job is in. Stages only move forward.
type Stage int

const (
	StageDiscovering Stage = iota // globbing inputs, loading the blocklist
	StageIndexing                 // streaming files into the sink
	StageCommitting               // final commit
	StageComplete
)

var stageNames = [...]struct{ name, tag string }{
	StageDiscovering: {"Discovering", "SCAN"},
	StageIndexing:    {"Indexing", "INDEX"},
	StageCommitting:  {"Committing", "COMMIT"},
	StageComplete:    {"Complete", "DONE"},
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "Unknown"
	}
	return stageNames[s].name
}

// Icon is the fixed-width tag used as a line prefix in plain output.
func (s Stage) Icon() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "???"
	}
	return stageNames[s].tag
}

// ProgressEvent is sent by the pipeline after each file starts and after
// each periodic commit. Current and Total count files, not documents.
type ProgressEvent struct {
	Stage       Stage
	Current     int
	Total       int
	CurrentFile string
	Documents   int
	Rate        float64 // documents per second since the job started
	Message     string
}

// ErrorEvent is a problem the job survived: a skipped line, an abandoned
// file or a failed periodic commit. Line is 0 when it does not apply.
type ErrorEvent struct {
	File   string
	Line   int
	Err    error
	IsWarn bool
}

// CompletionStats is the end-of-job summary.
type CompletionStats struct {
	IndexPath     string
	Files         int
	Documents     int
	Flagged       int
	SkippedLines  int
	SkippedFiles  int
	Commits       int
	FailedCommits int
	Duration      time.Duration
}

// Rate is documents per second over the whole run.
func (s CompletionStats) Rate() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Documents) / s.Duration.Seconds()
}

// Renderer receives job events. Implementations must tolerate
// UpdateProgress and AddError from any goroutine between Start and Stop.
type Renderer interface {
	Start(ctx context.Context) error
	UpdateProgress(event ProgressEvent)
	AddError(event ErrorEvent)
	Complete(stats CompletionStats)
	Stop() error
}

// Config selects and configures a Renderer.
type Config struct {
	Output     io.Writer
	ForcePlain bool
	NoColor    bool
	Pattern    string // input glob, shown in the live view header
}

type ConfigOption func(*Config)

func WithForcePlain(force bool) ConfigOption {
	return func(c *Config) { c.ForcePlain = force }
}

func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) { c.NoColor = noColor }
}

func WithPattern(pattern string) ConfigOption {
	return func(c *Config) { c.Pattern = pattern }
}

func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{Output: output}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewRenderer picks the live view only when output is an interactive
// terminal outside CI and plain output was not requested.
func NewRenderer(cfg Config) Renderer {
	if cfg.ForcePlain || DetectCI() || !IsTTY(cfg.Output) {
		return NewPlainRenderer(cfg)
	}
	if tui, err := NewTUIRenderer(cfg); err == nil {
		return tui
	}
	return NewPlainRenderer(cfg)
}

// IsTTY reports whether w is a terminal file.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// DetectNoColor honours https://no-color.org.
func DetectNoColor() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set
}

var ciEnvVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE", "TF_BUILD"}

// DetectCI reports whether a known CI environment variable is set.
func DetectCI() bool {
	for _, v := range ciEnvVars {
		if _, set := os.LookupEnv(v); set {
			return true
		}
	}
	return false
}

// Nop discards all events.
type Nop struct{}

func (Nop) Start(context.Context) error  { return nil }
func (Nop) UpdateProgress(ProgressEvent) {}
func (Nop) AddError(ErrorEvent)          {}
func (Nop) Complete(CompletionStats)     {}
func (Nop) Stop() error                  { return nil }
